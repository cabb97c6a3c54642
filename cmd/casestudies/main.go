package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "scrape":
		handleScrape(os.Args[2:])
	case "serve":
		handleServe(os.Args[2:])
	case "export":
		handleExport(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("casestudies - CharityComms case study scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  casestudies <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape     Scrape case studies and write them to a CSV file")
	fmt.Println("  serve      Run the browser interface")
	fmt.Println("  export     Write an archived run to a CSV file")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.casestudies/config.yaml (or -config),")
	fmt.Println("then CASESTUDIES_* environment variables, then command flags.")
	fmt.Println()
	fmt.Println("Run 'casestudies <command> -h' for command flags.")
}
