package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rawprouk/scrape/archive"
	"github.com/rawprouk/scrape/casestudy"
)

func handleExport(args []string) {
	// Parse flags for export command
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", getEnv("CASESTUDIES_DB", "casestudies.db"), "Path to the SQLite archive (CASESTUDIES_DB)")
	outPath := fs.String("out", casestudy.Filename, "CSV output file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: run ID is required\n")
		fmt.Fprintf(os.Stderr, "Usage: casestudies export [-db path] [-out file] <run-id>\n")
		os.Exit(1)
	}

	runID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run ID: %v\n", err)
		os.Exit(1)
	}

	store, err := archive.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.LoadRun(context.Background(), runID)
	if errors.Is(err, archive.ErrRunNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no run %s in %s\n", runID, *dbPath)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load run: %v\n", err)
		os.Exit(1)
	}

	if err := writeCSVFile(*outPath, run.Studies); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d case studies from run %s (scraped %s) to %s\n",
		len(run.Studies), run.RunID, run.ScrapedAt.Format("2006-01-02 15:04"), *outPath)
}
