package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"exchange-rate-cache/internal/adapter/cache"
	httpRouter "exchange-rate-cache/internal/adapter/http"
	"exchange-rate-cache/internal/adapter/repository"
	"exchange-rate-cache/internal/config"
	"exchange-rate-cache/internal/domain/ports"
	"exchange-rate-cache/internal/metrics"
	"exchange-rate-cache/internal/service"
	"exchange-rate-cache/pkg/logger"
)

func main() {
	cfg, dotenv, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(os.Getenv("LOG_LEVEL")).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting exchange rate cache", "dotenv", dotenv, "store", cfg.Store.Backend, "mock", cfg.ExchangeRate.UseMock)

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	backend, closeBackend, err := newBackend(cfg.Store, log)
	if err != nil {
		log.Error("Failed to initialise rate store", "error", err)
		os.Exit(1)
	}
	defer closeBackend()
	rateStore := cache.NewRateStore(backend, cfg.Store.Key, log, appMetrics)

	var source ports.RateSource
	var opts []service.Option
	if cfg.ExchangeRate.UseMock {
		fixed := repository.NewFixedSource(repository.MockExchangeRates, repository.MockValidity)
		source = fixed
		opts = append(opts, service.WithSeed(fixed.Current()), service.WithoutPersistence())
	} else {
		source = repository.NewGraphQLSource(cfg.ExchangeRate.GraphQLURL, cfg.ExchangeRate.Timeout, log)
	}

	provider := service.NewRateProvider(source, rateStore, log, appMetrics, opts...)

	ctx, cancelRefresh := context.WithCancel(context.Background())
	provider.Start(ctx)
	go provider.Run(ctx, cfg.ExchangeRate.PollInterval)

	handler := httpRouter.NewHandler(provider, log)
	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelRefresh()
	provider.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server exited")
}

func newBackend(cfg config.StoreConfig, log *logger.Logger) (ports.KeyValueStore, func(), error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return cache.NewMemoryStore(log), func() {}, nil
	case config.StoreRedis:
		store, err := cache.NewRedisStoreFromURL(cfg.RedisURL, cfg.Prefix, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("Failed to close redis client", "error", err)
			}
		}, nil
	default:
		store, err := cache.NewFileStore(cfg.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
