// API server entry point for the fusion catalog service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/cache"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/prometheus"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/source"
	httpserver "github.com/fusionatlas/fusion-catalog/internal/interfaces/http"
	"github.com/fusionatlas/fusion-catalog/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting fusion catalog API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("source_url", cfg.Source.URL),
	)

	// Metrics
	var collector prometheus.MetricsCollector
	var metrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            "fusion",
			Subsystem:            "catalog",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			logger.Fatal("failed to initialize metrics", logging.Err(err))
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	// Catalog pipeline: source client, snapshot cache, query service.
	client := source.NewClient(cfg.Source, logger)
	snap := cache.New(client, cfg.Cache.TTL, logger, metricsOrNil(metrics))
	svc := query.NewService(snap, logger)

	// Warm the snapshot so the first request does not pay the fetch; a cold
	// start with the upstream down is still fine, readiness reports it.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
	if _, _, _, err := snap.Snapshot(warmCtx); err != nil {
		logger.Warn("initial catalog load failed, will retry on demand", logging.Err(err))
	}
	warmCancel()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		CatalogHandler:   handlers.NewCatalogHandler(svc, logger),
		HealthHandler:    handlers.NewHealthHandler(version, catalogChecker{snap: snap, timeout: cfg.Source.Timeout}),
		Logger:           logger,
		MetricsCollector: collector,
		AppMetrics:       metrics,
		CORS:             cfg.CORS,
		MetricsPath:      cfg.Metrics.Path,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("http server failed", logging.Err(err))
		}
	}()

	// Reload configuration on file change; only log settings apply live.
	if _, err := os.Stat(*configPath); err == nil {
		config.Watch(*configPath, func(next *config.Config) {
			logger.Info("configuration reloaded", logging.String("path", *configPath))
		})
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("shutdown error", logging.Err(err))
	}
	logger.Info("stopped")
}

// loadConfig loads from the given file, falling back to environment variables
// and defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "config file %s not found, using environment and defaults\n", path)
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func metricsOrNil(m *prometheus.AppMetrics) cache.Metrics {
	if m == nil {
		return nil
	}
	return m
}

// catalogChecker reports readiness by resolving the current snapshot.
type catalogChecker struct {
	snap    *cache.SnapshotCache
	timeout time.Duration
}

func (c catalogChecker) Name() string { return "catalog" }

func (c catalogChecker) Check(ctx context.Context) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	_, _, _, err := c.snap.Snapshot(ctx)
	return err
}
