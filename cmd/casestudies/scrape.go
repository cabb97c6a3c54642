package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rawprouk/scrape/archive"
	"github.com/rawprouk/scrape/casestudy"
	"github.com/rawprouk/scrape/config"
	"github.com/rawprouk/scrape/discovery"
)

// newDriver wires a fetcher and driver from the configuration.
func newDriver(cfg *config.Config, logger *log.Logger) *discovery.Driver {
	fetcher := discovery.NewFetcher(cfg.Site.UserAgent, cfg.Scrape.FetchTimeout)
	driverConfig := &discovery.DriverConfig{
		EntryDelay: cfg.Scrape.EntryDelay,
		PageDelay:  cfg.Scrape.PageDelay,
	}
	return discovery.NewDriver(fetcher, cfg.Site, driverConfig, logger)
}

func handleScrape(args []string) {
	// Parse flags for scrape command
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	configPath := fs.String("config", getEnv("CASESTUDIES_CONFIG", ""), "Path to config file (CASESTUDIES_CONFIG)")
	pages := fs.Int("pages", 0, "Number of listing pages to scrape (default from config)")
	outPath := fs.String("out", casestudy.Filename, "CSV output file")
	dbPath := fs.String("db", getEnv("CASESTUDIES_DB", ""), "Also archive the run in this SQLite database (CASESTUDIES_DB)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	quiet := fs.Bool("quiet", false, "Do not print the results table")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *logLevel)
	logger := newLogger(cfg.Log)

	if *pages == 0 {
		*pages = cfg.Scrape.DefaultPages
	}
	if *pages < 1 || *pages > cfg.Scrape.MaxPages {
		fmt.Fprintf(os.Stderr, "Error: -pages must be between 1 and %d\n", cfg.Scrape.MaxPages)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := newDriver(cfg, logger)

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Scraping case studies..."

	status := newSpinnerStatus(s, logger, os.Stderr)
	status.start()
	studies, err := driver.ScrapeAll(ctx, *pages, status)
	status.stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scrape failed: %v\n", err)
		os.Exit(1)
	}

	if len(studies) == 0 {
		fmt.Fprintln(os.Stderr, "No data scraped.")
		os.Exit(1)
	}

	fmt.Printf("Scraped %d case studies!\n", len(studies))
	if !*quiet {
		fmt.Println(renderTable(studies))
	}

	if err := writeCSVFile(*outPath, studies); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)

	if *dbPath != "" {
		runID := uuid.New()
		if err := archiveRun(ctx, *dbPath, runID, studies); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Archived run %s in %s\n", runID, *dbPath)
	}
}

// writeCSVFile writes studies to path, replacing any existing file.
func writeCSVFile(path string, studies []casestudy.CaseStudy) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := casestudy.WriteCSV(f, studies); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// archiveRun stores studies in the SQLite archive at dbPath.
func archiveRun(ctx context.Context, dbPath string, runID uuid.UUID, studies []casestudy.CaseStudy) error {
	store, err := archive.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	if err := store.SaveRun(ctx, runID, time.Now(), studies); err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}
	return nil
}
