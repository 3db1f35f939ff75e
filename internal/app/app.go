package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/fx-converter/internal/api"
	"github.com/ayo6706/fx-converter/internal/api/handler"
	"github.com/ayo6706/fx-converter/internal/config"
	"github.com/ayo6706/fx-converter/internal/db"
	"github.com/ayo6706/fx-converter/internal/observability"
	"github.com/ayo6706/fx-converter/internal/ratesource"
	"github.com/ayo6706/fx-converter/internal/service"
	"github.com/ayo6706/fx-converter/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Run bootstraps the rate snapshot, refresher and HTTP server, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := openRateSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open rate source: %w", err)
	}
	defer backend.close()

	rates := service.NewRateService(backend.source, logger)
	snap, err := rates.Reload(ctx)
	if err != nil {
		return fmt.Errorf("initial rate load: %w", err)
	}
	logger.Info("rate snapshot ready", zap.String("source", snap.Source), zap.Int("quotes", len(snap.Quotes)))

	stopRefresher := func() {}
	if cfg.RateRefreshInterval > 0 {
		refresher := worker.NewRateRefresher(worker.ReloaderFunc(func(ctx context.Context) error {
			_, err := rates.Reload(ctx)
			return err
		})).WithInterval(cfg.RateRefreshInterval)
		stopRefresher = refresher.Run(ctx)
	} else {
		logger.Info("rate refresher disabled")
	}

	router := api.NewRouter(cfg, logger, rates, backend.checks...)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort), zap.Bool("admin", cfg.AdminEnabled()))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping rate refresher")
	stopRefresher()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

// rateBackend is a configured source plus the connections it owns.
type rateBackend struct {
	source ratesource.Source
	checks []handler.Check
	close  func()
}

func openRateSource(ctx context.Context, cfg *config.Config) (*rateBackend, error) {
	switch cfg.RateSource {
	case config.SourcePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return &rateBackend{
			source: ratesource.NewPostgres(pool, cfg.RatesTable),
			checks: []handler.Check{{Name: "database", Ping: pool.Ping}},
			close:  pool.Close,
		}, nil
	case config.SourceRedis:
		client, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &rateBackend{
			source: ratesource.NewRedis(client, cfg.RedisRatesKey),
			checks: []handler.Check{{Name: "redis", Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}}},
			close: func() { _ = client.Close() },
		}, nil
	default:
		return &rateBackend{
			source: ratesource.NewFile(cfg.RatesFile),
			close:  func() {},
		}, nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
