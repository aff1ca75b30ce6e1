package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName    = "portalscrape"
	appVersion = "1.0.0"
)

// rootCmd scrapes the transfer portal once and exits
var rootCmd = &cobra.Command{
	Use:     appName,
	Short:   "Scrape college football transfer portal listings",
	Version: appVersion,
	Long: `Scrape On3 and 247Sports transfer portal pages into a combined CSV.

Examples:
  portalscrape --team Alabama --team Georgia --year 2026
  portalscrape --source all --keys data/247_keys.csv --status committed
  portalscrape --dry-run`,
	SilenceUsage: true,
	RunE:         runScrape,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&scrapeFlags.source, "source", "on3", `site to scrape: on3, 247, or "all"`)
	f.IntVar(&scrapeFlags.year, "year", 0, "portal year (default SCRAPE_YEAR)")
	f.StringVar(&scrapeFlags.status, "status", "", "status filter: entered, committed, withdrawn, signed, enrolled")
	f.StringArrayVar(&scrapeFlags.teams, "team", nil, "team to scrape (repeatable; default every known team)")
	f.StringVar(&scrapeFlags.out, "out", "", "output directory (default SCRAPE_OUTPUT_DIR)")
	f.BoolVar(&scrapeFlags.visible, "visible", false, "show the browser window")
	f.DurationVar(&scrapeFlags.delay, "delay", -1, "pause after each page (default SCRAPE_DELAY)")
	f.IntVar(&scrapeFlags.workers, "workers", 0, "parallel pages (default SCRAPE_WORKERS)")
	f.BoolVar(&scrapeFlags.dryRun, "dry-run", false, "plan the pages without fetching them")
	f.StringVar(&scrapeFlags.keys, "keys", "", `247Sports "team,institution_key" CSV (default SCRAPE_247_KEYS)`)
	f.BoolVar(&scrapeFlags.save, "save", false, "upsert transactions into Postgres (needs DATABASE_DSN)")

	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
