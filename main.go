package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"emprunt/config"
	httpLayer "emprunt/http"
	"emprunt/logger"
	"emprunt/repository"
	"emprunt/service"
)

const redisPingTimeout = 2 * time.Second

func main() {
	configPath := flag.String("config", envOr("EMPRUNT_CONFIG", "config.yaml"), "path to the YAML config file")
	scenarioPath := flag.String("scenario", "", "run the comparison in this YAML file, print it as JSON and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cache, closeCache := newCache(cfg.Cache, log)
	defer closeCache()

	simulationRepo := repository.NewSimulationRepositoryMemory(cfg.History.MaxEntries, cfg.History.TTL)
	mortgageService := service.NewMortgageService(
		simulationRepo,
		cache,
		log,
		service.WithCacheTTL(cfg.Cache.TTL),
		service.WithLimits(service.Limits{
			MaxYears:           cfg.Limits.MaxYears,
			MaxPaymentsPerYear: cfg.Limits.MaxPaymentsPerYear,
			MaxAmount:          cfg.Limits.MaxAmount,
			MaxRate:            cfg.Limits.MaxRate,
		}),
	)

	if *scenarioPath != "" {
		if err := runScenarioFile(mortgageService, *scenarioPath); err != nil {
			log.Error("scenario run failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	rateLimiter := httpLayer.NewRateLimiter(
		cfg.RateLimit.Capacity,
		cfg.RateLimit.Refill,
		httpLayer.WithCleanup(cfg.RateLimit.CleanupThreshold, cfg.RateLimit.CleanupInterval),
	)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      httpLayer.NewRouter(mortgageService, rateLimiter, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("error starting server", zap.Error(err))
		return
	case <-quit:
		log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// newCache returns the configured cache. An unreachable Redis falls back
// to the in-memory cache.
func newCache(cfg config.CacheConfig, log *zap.Logger) (repository.CacheRepository, func()) {
	if cfg.Backend != "redis" {
		return repository.NewMemoryCache(), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, using memory cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		redisCache.Close()
		return repository.NewMemoryCache(), func() {}
	}
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}
}

func runScenarioFile(svc *service.MortgageService, path string) error {
	input, err := service.LoadComparisonFile(path)
	if err != nil {
		return err
	}
	result, err := svc.Compare(context.Background(), input)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
