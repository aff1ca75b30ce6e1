package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/portal/internal/config"
	"github.com/fortuna/portal/internal/ingest/on3"
	"github.com/fortuna/portal/internal/ingest/sports247"
	"github.com/fortuna/portal/internal/scrape"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/internal/store/repository"
	"github.com/fortuna/portal/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scrapeFlags struct {
	source  string
	year    int
	status  string
	teams   []string
	out     string
	visible bool
	delay   time.Duration
	workers int
	dryRun  bool
	keys    string
	save    bool
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applyFlags(&cfg.Scrape)

	runnerCfg := scrape.RunnerConfig{
		Teams:     store.SeedCatalog().Teams(),
		Workers:   cfg.Scrape.Workers,
		Delay:     cfg.Scrape.Delay,
		OutputDir: cfg.Scrape.OutputDir,
		Logger:    logger,
	}

	if scrapeFlags.source == scrape.SourceAll || scrapeFlags.source == on3.SourceName {
		browser := on3.NewClient(cfg.Scrape.Headless, logger)
		defer browser.Close()
		runnerCfg.Targets = append(runnerCfg.Targets, scrape.Target{Source: on3.Source{}, Fetcher: browser})
	}
	if scrapeFlags.source == scrape.SourceAll || scrapeFlags.source == sports247.SourceName {
		target, err := load247(cfg.Scrape.KeysFile)
		if err != nil {
			return err
		}
		runnerCfg.Targets = append(runnerCfg.Targets, target)
	}

	if scrapeFlags.save {
		db, err := store.NewDatabase(cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		source := repository.NewSource(db)
		teams, err := scrapeTeams(ctx, source, logger)
		if err != nil {
			return err
		}
		runnerCfg.Teams = teams
		runnerCfg.Writer = source
	}

	year := cfg.Scrape.Year
	if scrapeFlags.year != 0 {
		year = scrapeFlags.year
	}
	spec := scrape.JobSpec{
		Source: scrapeFlags.source,
		Teams:  scrapeFlags.teams,
		Year:   year,
		Status: scrapeFlags.status,
		DryRun: scrapeFlags.dryRun,
	}

	runner := scrape.NewRunner(runnerCfg)
	result, err := runner.Run(ctx, spec, &consoleReporter{logger: logger})
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	logger.Info("scrape completed",
		zap.Int("entries", len(result.Entries)),
		zap.Int("transactions", len(result.Transactions)),
		zap.Int("failed_teams", len(result.FailedTeams)),
		zap.String("output", result.OutputFile),
	)
	if result.Merges > 0 {
		logger.Info("sources reconciled",
			zap.Int("merged", result.Merges), zap.Int("conflicts", result.Conflicts))
	}
	return nil
}

type teamLister interface {
	Teams(ctx context.Context) ([]store.Team, error)
}

// scrapeTeams reads the teams scraped schools are resolved against. An empty
// table falls back to the built-in catalog so a fresh database can be scraped.
func scrapeTeams(ctx context.Context, source teamLister, logger *zap.Logger) ([]store.Team, error) {
	teams, err := source.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	if len(teams) == 0 {
		logger.Warn("no teams in database, using built-in catalog")
		return store.SeedCatalog().Teams(), nil
	}
	return teams, nil
}

func applyFlags(cfg *config.ScrapeConfig) {
	if scrapeFlags.out != "" {
		cfg.OutputDir = scrapeFlags.out
	}
	if scrapeFlags.visible {
		cfg.Headless = false
	}
	if scrapeFlags.delay >= 0 {
		cfg.Delay = scrapeFlags.delay
	}
	if scrapeFlags.workers > 0 {
		cfg.Workers = scrapeFlags.workers
	}
	if scrapeFlags.keys != "" {
		cfg.KeysFile = scrapeFlags.keys
	}
}

func load247(path string) (scrape.Target, error) {
	if path == "" {
		return scrape.Target{}, fmt.Errorf("247Sports needs --keys or SCRAPE_247_KEYS")
	}
	f, err := os.Open(path)
	if err != nil {
		return scrape.Target{}, fmt.Errorf("open 247 keys: %w", err)
	}
	defer f.Close()

	keys, err := sports247.LoadInstitutionKeys(f)
	if err != nil {
		return scrape.Target{}, fmt.Errorf("load 247 keys: %w", err)
	}
	return scrape.Target{Source: sports247.NewSource(keys), Fetcher: sports247.NewClient(nil)}, nil
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

type consoleReporter struct {
	logger *zap.Logger
}

func (c *consoleReporter) OnJobStart(spec scrape.JobSpec, total int) {
	c.logger.Info("starting scrape",
		zap.String("source", spec.Source), zap.Int("year", spec.Year),
		zap.Int("pages", total), zap.Bool("dry_run", spec.DryRun))
}

func (c *consoleReporter) OnTeamScraped(source, team string, entries int, err error) {
	if err != nil {
		c.logger.Warn("team failed", zap.String("source", source), zap.String("team", team), zap.Error(err))
		return
	}
	c.logger.Info("team scraped", zap.String("source", source), zap.String("team", team), zap.Int("entries", entries))
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	c.logger.Debug("progress", zap.String("message", message), zap.Int("current", current), zap.Int("total", total))
}

func (c *consoleReporter) OnJobComplete(*scrape.Result) {
	c.logger.Info("job complete")
}

func (c *consoleReporter) OnJobError(err error) {
	c.logger.Error("job error", zap.Error(err))
}

// dbCommand opens Postgres for the migrate and seed subcommands
func dbCommand(ctx context.Context, fn func(context.Context, *store.Database, *zap.Logger) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	db, err := store.NewDatabase(cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, logger)
}
