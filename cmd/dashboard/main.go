package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"MarketFlash/internal/config"
	"MarketFlash/internal/fetcher"
	"MarketFlash/internal/logging"
	"MarketFlash/internal/market"
	"MarketFlash/internal/news"
	"MarketFlash/internal/recorder"
	"MarketFlash/internal/scheduler"
	"MarketFlash/internal/server"
	"MarketFlash/internal/store"
	"MarketFlash/internal/universe"
)

func main() {
	// .env is optional, real env always wins.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Infow("MarketFlash starting", "markets", cfg.Markets)

	// Fetcher with short-lived response cache.
	yahoo := fetcher.NewYahooFetcher(cfg.Proxy, time.Duration(cfg.Fetch.TimeoutSec)*time.Second, logger)
	cached := fetcher.NewCachedFetcher(yahoo, time.Duration(cfg.Fetch.CacheTTLSec)*time.Second, cfg.Fetch.CacheSize)
	logger.Infow("data source ready", "name", cached.Name())

	wiki := universe.NewWikipediaProvider(logger)

	st := store.New(cfg.Data.Dir)
	resolver := universe.NewResolver(st, yahoo, universe.NewSearchClient(), logger)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warnw("sqlite recorder unavailable, using noop", "err", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	agg := market.NewAggregator(cached, wiki, st, resolver, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, agg, st, rec, cfg.Markets, cfg.Data.HistoryDays, logger)
	sched.AddCache(cached)
	sched.AddCache(wiki)
	if err := sched.RegisterAll(cfg.Schedule.SnapshotCron); err != nil {
		logger.Fatalw("register cron tasks", "err", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing snapshot now")
		go sched.RunSnapshotNow()
	}

	srv := server.New(cfg.Server.Addr, agg, st, resolver, news.NewClient(), cfg.Markets, cfg.Data.HistoryDays, logger)
	srv.AddCache(cached)
	srv.AddCache(wiki)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatalw("http server", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
	logger.Info("MarketFlash stopped")
}
