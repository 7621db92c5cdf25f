package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scraper/internal/api"
	"scraper/internal/config"
	"scraper/internal/fetcher"
	"scraper/internal/monitoring"
	"scraper/internal/registry"
	"scraper/internal/scraper"
	"scraper/internal/storage"
	"scraper/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// Initialize structured logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()

	// Mirrors are optional; the in-memory store is always authoritative.
	instanceID := uuid.NewString()
	var mirrors []storage.Mirror
	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.RedisTTLHours) * time.Hour
		mirrors = append(mirrors, storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, instanceID, ttl))
	}
	if cfg.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL, instanceID)
		cancel()
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		mirrors = append(mirrors, pgStore)
	}

	var observer storage.Observer
	var replicator *storage.Replicator
	if len(mirrors) > 0 {
		replicator = storage.NewReplicator(mirrors, cfg.QueueSize*4, log)
		observer = replicator
	}
	store := storage.NewMemoryStore(observer)

	// Initialize Monitoring and the fetch pipeline
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	httpFetcher := fetcher.NewHTTPFetcher(cfg.FetchTimeout, cfg.MaxBodyBytes, metrics, log)

	// Initialize Core Engine
	engine := scraper.NewEngine(cfg, store, httpFetcher, metrics, log)
	engine.Start()

	regCtx, stopRegistration := context.WithCancel(context.Background())
	defer stopRegistration()
	if cfg.RegistryURL != "" {
		registrar := registry.NewRegistrar(cfg.RegistryURL, cfg.ServiceName, cfg.ServiceURL, cfg.RegistryRetryDelay, log)
		go registrar.Run(regCtx)
	}

	// Initialize API Server
	server := api.NewServer(cfg, engine, mirrors, metrics, log)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()

	log.Info("server started",
		zap.String("port", cfg.ServerPort),
		zap.String("instance_id", instanceID),
		zap.Int("workers", cfg.ScrapeWorkers),
		zap.Int("mirrors", len(mirrors)))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopRegistration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	engine.Stop()
	if replicator != nil {
		replicator.Close()
	}

	log.Info("server exiting")
}
