package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkorolev/sportmonitor/internal/aggregator"
	"github.com/mkorolev/sportmonitor/internal/analysis"
	pkgconfig "github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/health"
	"github.com/mkorolev/sportmonitor/internal/pkg/logging"
	"github.com/mkorolev/sportmonitor/internal/pkg/storage"
	"github.com/mkorolev/sportmonitor/internal/report"
	"github.com/mkorolev/sportmonitor/internal/scheduler"
	"github.com/mkorolev/sportmonitor/internal/sources"

	_ "github.com/mkorolev/sportmonitor/internal/sources/all"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	runFor     time.Duration
	once       bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Aggregator service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()

	slog.Info("Loading config", "path", cfg.configPath)
	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := logging.Setup(&appConfig.Logging, "aggregator"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	srcs, err := sources.Build(appConfig)
	if err != nil {
		return fmt.Errorf("failed to build sources: %w", err)
	}
	if len(srcs) == 0 {
		return fmt.Errorf("no sources enabled in config (available: %v)", sources.AvailableNames())
	}
	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, s.Name())
	}
	slog.Info("Sources enabled", "sources", names)

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	cache := buildCache(appConfig)
	healthStore := health.NewStore()

	agg := aggregator.New(appConfig, srcs, cache, healthStore)
	analyst := analysis.NewClient(&appConfig.Analysis)
	reporter := report.NewTelegramReporter(&appConfig.Report)

	sched, err := scheduler.New(&appConfig.Scheduler, agg, analyst, reporter)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if cfg.once {
		sched.RunOnce(ctx)
		return nil
	}

	healthAddr, err := health.AddrFor(appConfig.Health.Port)
	if err != nil {
		return fmt.Errorf("health.port must be specified in config: %w", err)
	}
	if err := health.Run(ctx, healthAddr, "aggregator", healthStore, appConfig.Health.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := sched.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return err
	}
	slog.Info("Aggregator service stopped gracefully")
	return nil
}

func parseFlags() flags {
	var cfg flags
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration. 0 = run until SIGINT/SIGTERM")
	flag.BoolVar(&cfg.once, "once", false, "Run a single cycle and exit")
	flag.Parse()
	return cfg
}

// buildCache prefers redis when configured, otherwise an in-process cache.
func buildCache(cfg *pkgconfig.Config) storage.ResultCache {
	ttl := cfg.Aggregator.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	if cfg.Redis.Addr != "" {
		cache, err := storage.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			slog.Warn("Redis unavailable, falling back to in-memory cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			slog.Info("Using redis result cache", "addr", cfg.Redis.Addr, "ttl", ttl)
			return cache
		}
	}

	slog.Info("Using in-memory result cache", "ttl", ttl)
	return storage.NewMemoryCache(ttl)
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
