package main

import (
	"context"
	"os"
	"time"

	"github.com/samber/do"
	"github.com/serroba/trending-go/internal/container"
	"github.com/serroba/trending-go/internal/provision"
	"github.com/serroba/trending-go/internal/trending"
	"go.uber.org/zap"
)

func main() {
	opts := &container.Options{
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Prefix:    getEnv("PREFIX", "trending"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	requestType := getEnv("REQUEST_TYPE", trending.RequestTypeCreate)
	callbackURL := getEnv("CALLBACK_URL", "")

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.RepositoryPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	configs := do.MustInvoke[trending.ConfigWriter](injector)

	var responder trending.Responder = provision.NewLogResponder(logger)
	if callbackURL != "" {
		responder = provision.NewHTTPResponder(callbackURL, nil)
	}

	seeder := trending.NewSeeder(configs, responder, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	outcome := seeder.Seed(ctx, requestType)

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	if outcome.Status != trending.ProvisioningSuccess {
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
