package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/lib/logger/sl"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/repository"
	"github.com/UnknownOlympus/mnemosyne/internal/server"
	"github.com/UnknownOlympus/mnemosyne/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	var failed atomic.Bool
	var storage repository.Storage
	delta := 3

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	gate := server.NewGate()
	handler := server.NewHandler(logger, gate, cfg.Database.QueryTimeout)
	router := server.NewRouter(logger, handler, appMetrics)

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, gate, cfg.MetricsPort, cfg.ShutdownTimeout)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting API server", "port", cfg.Port)
		if err := server.Run(ctx, logger, server.NewHTTPServer(cfg.Port, router), cfg.ShutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "API server failed", sl.Err(err))
			failed.Store(true)
			stop()
		}
		logger.InfoContext(ctx, "API server stopped.")
	}()

	go func() {
		defer wgr.Done()
		var bootstrapFailed bool
		storage, bootstrapFailed = startStorage(
			ctx, stop, logger, cfg.Database, appMetrics, gate, repository.NewStorage)
		if bootstrapFailed {
			failed.Store(true)
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	if storage != nil {
		if err := storage.Close(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Failed to close database connection", sl.Err(err))
		}
	}

	if failed.Load() {
		logger.Error("Application stopped with errors")
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// storageOpener opens a pooled connection to the employee storage.
type storageOpener func(
	ctx context.Context, cfg config.DatabaseConfig, appMetrics *metrics.Metrics,
) (repository.Storage, error)

// startStorage runs bootstrap and, when the database cannot be reached, cancels the root
// context through stop and reports the failure. A bootstrap interrupted by a signal is not
// a failure.
func startStorage(
	ctx context.Context,
	stop context.CancelFunc,
	log *slog.Logger,
	cfg config.DatabaseConfig,
	appMetrics *metrics.Metrics,
	gate *server.Gate,
	open storageOpener,
) (repository.Storage, bool) {
	storage, err := bootstrap(ctx, log, cfg, appMetrics, gate, open)
	if err == nil {
		return storage, false
	}
	if ctx.Err() != nil {
		return nil, false
	}

	log.ErrorContext(ctx, "Error connecting to database, shutting down", sl.Err(err))
	stop()

	return nil, true
}

// bootstrap connects to the database, seeds an empty employee collection and opens the gate.
// A seeding failure leaves the service running against whatever the collection holds.
func bootstrap(
	ctx context.Context,
	log *slog.Logger,
	cfg config.DatabaseConfig,
	appMetrics *metrics.Metrics,
	gate *server.Gate,
	open storageOpener,
) (repository.Storage, error) {
	backend, err := repository.BackendFor(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database backend: %w", err)
	}

	log.InfoContext(ctx, "Connecting to database",
		"backend", string(backend), "database", cfg.Name, "max_pool_size", cfg.MaxPoolSize)

	storage, err := open(ctx, cfg, appMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.InfoContext(ctx, "Database connection successful", "backend", string(backend))

	staff := employees.NewStaff(log, storage, appMetrics)
	if _, err = staff.Seed(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to seed employee collection", sl.Err(err))
	}

	gate.Set(storage)
	appMetrics.StorageReady.Set(1)
	log.InfoContext(ctx, "Storage is ready, serving employee data")

	return storage, nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `APP_ENV`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{Key: "", Value: slog.Value{}}
	}
	return a
}
