package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadgenhq/d7-lead-proxy/internal/config"
	"github.com/leadgenhq/d7-lead-proxy/internal/httpapi"
	"github.com/leadgenhq/d7-lead-proxy/internal/metrics"
	"github.com/leadgenhq/d7-lead-proxy/internal/ratelimit"
	"github.com/leadgenhq/d7-lead-proxy/internal/search/d7"
	"github.com/leadgenhq/d7-lead-proxy/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	limiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	client := d7.New(d7.Config{
		APIKey:         cfg.D7.APIKey,
		BaseURL:        cfg.D7.BaseURL,
		SearchTimeout:  cfg.D7.SearchTimeout,
		ResultsTimeout: cfg.D7.ResultsTimeout,
	}, logger)

	svc := service.NewSearchService(client, logger, m, service.Config{
		DefaultWait: cfg.Search.DefaultWait,
	})

	handler := httpapi.NewHandler(httpapi.Deps{
		Service:        svc,
		Limiter:        limiter,
		Metrics:        m,
		Logger:         logger,
		Env:            cfg.Server.Env,
		Version:        config.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateWindow:     cfg.RateLimit.Window,
		RateMax:        cfg.RateLimit.MaxRequests,
		TrustProxy:     cfg.RateLimit.TrustProxy,
		Start:          time.Now(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Full search blocks for initiate + wait + results, so the write
		// timeout has to cover the whole worst-case sequence.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("version", config.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ratelimit.Store, error) {
	rlCfg := ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}

	if cfg.Redis.Addr == "" {
		limiter := ratelimit.New(rlCfg)
		limiter.StartJanitor(ctx, 5*time.Minute)
		return limiter, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("rate limiter using redis", zap.String("addr", cfg.Redis.Addr))
	return ratelimit.NewRedisStore(rdb, rlCfg), nil
}
