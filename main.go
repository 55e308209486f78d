package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"morizon-scraper/config"
	"morizon-scraper/models"
	"morizon-scraper/scraper/fetch"
	"morizon-scraper/scraper/morizon"
	"morizon-scraper/services"
	"morizon-scraper/storage"
	"morizon-scraper/utils"
)

func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	startURL, err := cfg.StartURL()
	if err != nil {
		logger.Error("Failed to resolve start URL: %v", err)
		os.Exit(1)
	}

	urlFlag := flag.String("url", startURL, "url with query filters for scraping (should be first page of results)")
	outFlag := flag.String("o", cfg.OutputPath, "destination file")
	cacheClear := flag.Bool("cache-clear", false, "clear cached pages before crawling")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Morizon scraper starting ===")
	logger.Info("Config: listing workers %d | detail workers %d | cache %s | mode %s",
		cfg.ListingWorkers, cfg.DetailWorkers, cfg.CacheDir, cfg.FetchMode)

	store := storage.NewDiskStore(cfg.CacheDir)
	if *cacheClear {
		if err := store.Clear(); err != nil {
			logger.Error("Failed to clear cache: %v", err)
			os.Exit(1)
		}
		logger.Info("[cache] Cleared %s", store.Dir())
	} else if n, err := store.RemoveStale(); err != nil {
		logger.Warn("[cache] %v", err)
	} else if n > 0 {
		logger.Info("[cache] Removed %d unfinished write(s) from %s", n, store.Dir())
	}

	var live fetch.Fetcher
	switch cfg.FetchMode {
	case "browser":
		bf := fetch.NewBrowserFetcher(cfg.ChromeBin, cfg.UserAgent, cfg.RequestTimeout)
		defer bf.Close()
		live = bf
	default:
		live = fetch.NewHTTPFetcher(fetch.HTTPOptions{
			Timeout:     cfg.RequestTimeout,
			UserAgent:   cfg.UserAgent,
			RateLimit:   cfg.RateLimit(),
			MaxAttempts: cfg.MaxRetries,
			Logger:      logger,
		})
	}

	cleaner := services.NewCleaner(logger, services.NewLocaleDateParser(cfg.DateLanguage))
	scraper := morizon.New(morizon.Options{
		ListingWorkers: cfg.ListingWorkers,
		DetailWorkers:  cfg.DetailWorkers,
		ListingTimeout: cfg.ListingTimeout,
		DetailTimeout:  cfg.DetailTimeout,
	}, fetch.NewCachedFetcher(store, live, logger), cleaner, logger)

	results, err := scraper.Scrape(ctx, *urlFlag)
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(*outFlag)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	save(logger, "csv", csvWriter, results)

	if cfg.PostgresEnabled {
		writeToPostgres(cfg, logger, results)
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(results))

	fmt.Printf("  saved results for %s to %s\n\n", *urlFlag, *outFlag)
}

// save writes results through w and closes it. Failures are logged; the run
// carries on with the remaining sinks.
func save(logger *utils.Logger, name string, w storage.ResultWriter, results []*models.Result) {
	defer func() {
		if err := w.Close(); err != nil {
			logger.Error("[%s] Close failed: %v", name, err)
		}
	}()
	if err := w.Write(results); err != nil {
		logger.Error("[%s] Write failed: %v", name, err)
		return
	}
	logger.Info("[%s] Stored %d listings", name, len(results))
}

func writeToPostgres(cfg *config.Config, logger *utils.Logger, results []*models.Result) {
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("[postgres] Connect failed: %v", err)
		return
	}

	stored, err := pgWriter.FetchAll()
	if err != nil {
		logger.Warn("[postgres] Could not read existing rows: %v", err)
	} else {
		logger.Info("[postgres] %d listings already in morizon_listings", len(stored))
	}
	save(logger, "postgres", pgWriter, results)
}
