package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"GoldWatch/internal/analysis"
	"GoldWatch/internal/cache"
	"GoldWatch/internal/collector"
	"GoldWatch/internal/config"
	"GoldWatch/internal/notifier"
	"GoldWatch/internal/provider"
	"GoldWatch/internal/scheduler"
	"GoldWatch/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := bootstrapLogger()
		boot.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		boot := bootstrapLogger()
		boot.Fatal().Err(err).Msg("config validation")
	}

	log := newLogger(cfg)
	log.Info().Str("symbol", cfg.Symbol).Msg("goldwatch starting")

	price := provider.NewTwelveDataFetcher(cfg.PriceSource.BaseURL, cfg.PriceSource.APIKey, log)
	stats := provider.NewFREDFetcher(cfg.StatsSource.BaseURL, cfg.StatsSource.APIKey, log)
	events := provider.NewCalendarSource(cfg.Calendar.RSSURL, cfg.Calendar.SampleOnEmpty, log)

	store := cache.New(log)
	col := collector.New(cfg, store, price, stats, events, log)
	engine := analysis.NewEngine(cfg, log)
	formatter := notifier.NewFormatter(cfg.Symbol)

	srv := server.New(cfg, stats, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, engine, formatter, srv, log)
	if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	srv.OnUpdateRequest = func() { go sched.RunNow() }

	srv.Start()
	sched.Start()
	defer sched.Stop()

	// First snapshot immediately so the API and new WS clients have data
	// before the first scheduled tick.
	go sched.RunNow()

	log.Info().Str("listen", cfg.Server.Listen).Msg("goldwatch is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("goldwatch stopped")
}

// bootstrapLogger covers fatal paths before config-driven logging exists.
func bootstrapLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Log.Format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
