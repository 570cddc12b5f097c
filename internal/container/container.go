package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/trending-go/internal/handlers"
	"github.com/serroba/trending-go/internal/health"
	"github.com/serroba/trending-go/internal/invoke"
	"github.com/serroba/trending-go/internal/messaging"
	"github.com/serroba/trending-go/internal/middleware"
	"github.com/serroba/trending-go/internal/ratelimit"
	"github.com/serroba/trending-go/internal/store"
	"github.com/serroba/trending-go/internal/trending"
	"go.uber.org/zap"
)

// Options holds the service configuration.
type Options struct {
	Port        int    `default:"8888"           help:"Port to listen on"                                                          short:"p"`
	RedisAddr   string `default:"localhost:6379" help:"Redis server address"                                                       short:"r"`
	PostgresDSN string `default:""               help:"Postgres DSN for the interaction record store; empty keeps records in memory"`
	Prefix      string `default:"trending"       help:"Deployment prefix namespacing tables, keys, and streams"`
	LogFormat   string `default:"console"        help:"Log format: console or json"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// PostgresPackage provides the pgx pool when a DSN is configured. Without a
// DSN the pool is nil and the record store falls back to memory.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.PostgresDSN == "" {
			return nil, nil
		}

		return pgxpool.New(context.Background(), opts.PostgresDSN)
	})
}

// RepositoryPackage provides the config, count, and record repositories.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.RedisConfigStore, error) {
		opts := do.MustInvoke[*Options](i)

		return store.NewRedisConfigStore(do.MustInvoke[*redis.Client](i), opts.Prefix), nil
	})

	do.Provide(injector, func(i *do.Injector) (trending.ConfigRepository, error) {
		return do.MustInvoke[*store.RedisConfigStore](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (trending.ConfigWriter, error) {
		return do.MustInvoke[*store.RedisConfigStore](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (trending.CountRepository, error) {
		opts := do.MustInvoke[*Options](i)

		return store.NewRedisCountStore(do.MustInvoke[*redis.Client](i), opts.Prefix), nil
	})

	do.Provide(injector, func(i *do.Injector) (trending.RecordRepository, error) {
		opts := do.MustInvoke[*Options](i)

		pool := do.MustInvoke[*pgxpool.Pool](i)
		if pool == nil {
			return store.NewMemoryRecordStore(), nil
		}

		records := store.NewPostgresRecordStore(pool, opts.Prefix)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := records.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrating record store: %w", err)
		}

		return records, nil
	})
}

// ServicePackage provides the resolver, query, recorder, reconciler, and
// the local function registry.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*trending.Resolver, error) {
		return trending.NewResolver(do.MustInvoke[trending.ConfigRepository](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*trending.Query, error) {
		return trending.NewQuery(
			do.MustInvoke[*trending.Resolver](i),
			do.MustInvoke[trending.CountRepository](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*invoke.Local, error) {
		local := invoke.NewLocal()
		local.Register(trending.FunctionGetTrendingItems, do.MustInvoke[*trending.Query](i).InvokeHandler())

		return local, nil
	})

	do.Provide(injector, func(i *do.Injector) (*trending.Recorder, error) {
		return trending.NewRecorder(
			do.MustInvoke[*trending.Resolver](i),
			do.MustInvoke[trending.RecordRepository](i),
			do.MustInvoke[trending.CountRepository](i),
			do.MustInvoke[*invoke.Local](i),
			do.MustInvoke[messaging.Publish[trending.InteractionRecordedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*trending.Reconciler, error) {
		return trending.NewReconciler(
			do.MustInvoke[trending.RecordRepository](i),
			do.MustInvoke[trending.CountRepository](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the watermill publisher over Redis Streams
// and the typed publish functions.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     do.MustInvoke[*redis.Client](i),
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[trending.InteractionRecordedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[trending.InteractionRecordedEvent](
			group.Publisher(), trending.TopicInteractionRecorded), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[trending.SweepRequestedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[trending.SweepRequestedEvent](
			group.Publisher(), trending.TopicSweepRequested), nil
	})
}

// RateLimitPackage provides the policy limiter and scope resolver.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), ratelimit.DefaultPolicy()), nil
	})

	do.Provide(injector, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}

// HTTPPackage provides the router and API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("Trending Items", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.PolicyRateLimiter(api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				do.MustInvoke[ratelimit.ScopeResolver](i),
				logger,
			),
		)

		trendingHandler := handlers.NewTrendingHandler(
			do.MustInvoke[*trending.Recorder](i),
			do.MustInvoke[*trending.Query](i),
			do.MustInvoke[*trending.Reconciler](i),
			do.MustInvoke[*invoke.Local](i),
			logger,
		)
		handlers.RegisterRoutes(api, trendingHandler)

		var postgres health.Checker
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			postgres = health.NewPostgresChecker(pool)
		}

		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			postgres,
		))

		return api, nil
	})
}

// ConsumerGroupPackage provides the sweeper's consumer group: a subscriber
// on the sweep-request topic triggering immediate reconcile passes.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		reconciler := do.MustInvoke[*trending.Reconciler](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: opts.Prefix + "-sweeper",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			"sweep-requested",
			subscriber,
			trending.TopicSweepRequested,
			func(ctx context.Context, _ *trending.SweepRequestedEvent) error {
				summary, err := reconciler.Reconcile(ctx, time.Now())
				if err != nil {
					return err
				}

				logger.Info("on-demand sweep finished",
					zap.Bool("has_removals", summary.HasRemovals))

				return nil
			},
			logger,
		))

		return group, nil
	})
}
