package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/chargegauge/internal/adapters/http/api"
	"github.com/okian/chargegauge/internal/adapters/http/swagger"
	"github.com/okian/chargegauge/internal/adapters/jobs"
	"github.com/okian/chargegauge/internal/adapters/repository"
	service "github.com/okian/chargegauge/internal/app"
	"github.com/okian/chargegauge/internal/config"
	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logging at the configured level (fallback to info on invalid input)
	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		if err := logger.Init(); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "daemon failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the daemon until ctx is canceled.
func run(ctx context.Context, cfg *config.Config) error {
	loggerInstance := logger.Get()

	tables, err := jobs.Load(cfg.JobsFile)
	if err != nil {
		return fmt.Errorf("load job tables: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			loggerInstance.Error(ctx, "closing preference store failed", logger.Error(err))
		}
	}()

	// Create and start the service with configuration options
	svc := newService(cfg, tables, store, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	srv := newHTTPServer(ctx, cfg, svc)

	// Start the HTTP server
	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// openStore opens the SQLite preference store, or an in-memory one when no
// database path is configured.
func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.PrefsDB == "" {
		return repository.NewMemoryStore(), nil
	}
	store, err := repository.NewSQLiteStore(cfg.PrefsDB)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	return store, nil
}

func newService(cfg *config.Config, tables *jobs.Table, store repository.Store, log logger.Logger) *service.Service {
	return service.New(tables, store,
		service.WithLogger(log.Named("service")),
		service.WithQueueSize(cfg.FrameQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithInitialJob(cfg.Job),
		service.WithBoardWidth(cfg.BoardWidth),
	)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, svc *service.Service) *http.Server {
	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)
	swagger.Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.HeapInuse)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	// GetStats refreshes the queue gauge as a side effect.
	stats := svc.GetStats()
	if gauges, ok := stats["gauges"].(int); ok {
		metrics.UpdateActiveGauges(gauges)
	}
}
