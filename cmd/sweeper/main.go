package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"
	"github.com/serroba/trending-go/internal/container"
	"github.com/serroba/trending-go/internal/messaging"
	"github.com/serroba/trending-go/internal/trending"
	"go.uber.org/zap"
)

func main() {
	opts := &container.Options{
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),
		Prefix:      getEnv("PREFIX", "trending"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
	}

	interval := getInterval("SWEEP_INTERVAL", time.Minute)

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	reconciler := do.MustInvoke[*trending.Reconciler](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	go sweepLoop(ctx, reconciler, interval, logger)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// sweepLoop runs a reconcile pass every interval until the context ends.
func sweepLoop(ctx context.Context, reconciler *trending.Reconciler, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := reconciler.Reconcile(ctx, time.Now())
			if err != nil {
				logger.Error("scheduled sweep failed", zap.Error(err))

				continue
			}

			logger.Info("scheduled sweep finished",
				zap.Bool("has_removals", summary.HasRemovals))
		}
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

func getInterval(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}

	return d
}
