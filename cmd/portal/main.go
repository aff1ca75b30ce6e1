package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/portal/internal/api/rest"
	"github.com/fortuna/portal/internal/api/websocket"
	"github.com/fortuna/portal/internal/cache"
	"github.com/fortuna/portal/internal/chat"
	"github.com/fortuna/portal/internal/config"
	"github.com/fortuna/portal/internal/ingest"
	"github.com/fortuna/portal/internal/ingest/on3"
	"github.com/fortuna/portal/internal/ingest/sports247"
	"github.com/fortuna/portal/internal/publisher"
	"github.com/fortuna/portal/internal/scheduler"
	"github.com/fortuna/portal/internal/scrape"
	"github.com/fortuna/portal/internal/store"
	"github.com/fortuna/portal/internal/store/repository"
	"github.com/fortuna/portal/internal/util"
	"go.uber.org/zap"
)

const (
	serviceName    = "portal"
	serviceVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting transfer portal service",
		zap.String("service", serviceName), zap.String("version", serviceVersion))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	var (
		db     *store.Database
		writer scrape.TransactionWriter
	)
	catalog := store.SeedCatalog()
	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		db, err = store.NewDatabase(cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		source := repository.NewSource(db)
		catalog, err = store.LoadCatalog(ctx, source)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		writer = source
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("teams", len(catalog.Teams())),
		zap.Int("players", len(catalog.Players())),
		zap.Int("transactions", len(catalog.Transactions())),
	)

	// Redis is optional: page cache and event streams
	var redisCache *cache.RedisCache
	var streamPublisher *publisher.RedisPublisher
	if cfg.Redis.Enabled() {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		streamPublisher = publisher.NewRedisPublisher(redisCache.Client(), logger)
		logger.Info("connected to redis")
	}

	wsServer := websocket.NewServer(chat.CannedAssistant{}, cfg.Chat.ReplyDelay, logger)

	handler := rest.NewHandler(catalog, cfg.Favorites.DefaultIDs)
	if db != nil {
		handler.WithHealthCheck("postgres", db)
	}
	if redisCache != nil {
		handler.WithHealthCheck("redis", redisCache)
	}

	// Scraping
	var (
		scrapeService *scrape.Service
		scrapeHandler *rest.ScrapeHandler
		sched         *scheduler.Scheduler
	)
	if cfg.Scrape.Enabled {
		pubs := []publisher.Publisher{wsServer}
		if streamPublisher != nil {
			pubs = append(pubs, streamPublisher)
		}

		var pageCache ingest.PageCache
		if redisCache != nil {
			pageCache = redisCache
		}
		targets, closeTargets, err := buildTargets(cfg.Scrape, pageCache, logger)
		if err != nil {
			return err
		}
		defer closeTargets()

		runner := scrape.NewRunner(scrape.RunnerConfig{
			Targets:   targets,
			Teams:     catalog.Teams(),
			Workers:   cfg.Scrape.Workers,
			Delay:     cfg.Scrape.Delay,
			OutputDir: cfg.Scrape.OutputDir,
			Writer:    writer,
			Publisher: publisher.NewFanout(pubs...),
			Logger:    logger,
		})

		scrapeService = scrape.NewService(runner, cfg.Scrape.Year, logger)
		scrapeService.Start()
		scrapeHandler = rest.NewScrapeHandler(scrapeService)
		logger.Info("scrape service started", zap.Strings("sources", runner.Sources()))

		if cfg.Scrape.DailyHour >= 0 {
			schedCfg := scheduler.DefaultConfig()
			schedCfg.DailyHour = cfg.Scrape.DailyHour
			sched, err = scheduler.New(scrapeService, schedCfg, logger)
			if err != nil {
				return err
			}
			go sched.Start(ctx)
		}
	}

	restServer := rest.NewServer(cfg.Server.RESTPort, handler, scrapeHandler, logger)
	go func() {
		logger.Info("REST API server listening", zap.String("port", cfg.Server.RESTPort))
		if err := restServer.Start(); err != nil {
			logger.Error("REST server error", zap.Error(err))
		}
	}()

	go func() {
		if err := wsServer.Start(cfg.Server.WSPort); err != nil {
			logger.Error("WebSocket server error", zap.Error(err))
		}
	}()

	logger.Info("portal started",
		zap.String("rest", "http://0.0.0.0:"+cfg.Server.RESTPort),
		zap.String("websocket", "ws://0.0.0.0:"+cfg.Server.WSPort),
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down gracefully")
	cancel()
	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("REST API server shutdown error", zap.Error(err))
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket server shutdown error", zap.Error(err))
	}
	if scrapeService != nil {
		if err := scrapeService.Shutdown(shutdownCtx); err != nil {
			logger.Warn("scrape service shutdown error", zap.Error(err))
		}
	}

	logger.Info("portal stopped")
	return nil
}

// buildTargets wires On3 (always) and 247Sports (when a keys file is set).
// Page fetches go through Redis when it is available.
func buildTargets(cfg config.ScrapeConfig, pageCache ingest.PageCache, logger *zap.Logger) ([]scrape.Target, func(), error) {
	withCache := func(f ingest.Fetcher) ingest.Fetcher {
		if pageCache == nil {
			return f
		}
		return ingest.NewCachedFetcher(f, pageCache, cfg.CacheTTL, logger)
	}

	browser := on3.NewClient(cfg.Headless, logger)
	targets := []scrape.Target{{Source: on3.Source{}, Fetcher: withCache(browser)}}

	if cfg.KeysFile != "" {
		f, err := os.Open(cfg.KeysFile)
		if err != nil {
			browser.Close()
			return nil, nil, fmt.Errorf("open 247 keys: %w", err)
		}
		keys, err := sports247.LoadInstitutionKeys(f)
		f.Close()
		if err != nil {
			browser.Close()
			return nil, nil, fmt.Errorf("load 247 keys: %w", err)
		}
		targets = append(targets, scrape.Target{
			Source:  sports247.NewSource(keys),
			Fetcher: withCache(sports247.NewClient(nil)),
		})
	}

	return targets, browser.Close, nil
}
