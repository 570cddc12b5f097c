package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/trending-go/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware applying policy-based rate
// limiting. Scopes come from the resolver; endpoints can override via
// operation metadata under ratelimit.MetadataKey (disable entirely, force a
// scope, or define custom limits).
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			if len(cfg.Limits) > 0 {
				if checkCustomLimits(api, ctx, limiter.Store(), cfg.Limits, logger) {
					next(ctx)
				}

				return
			}
		}

		key := clientKey(ctx)
		scopes := resolver.Resolve(ctx)

		allowed, exceeded, err := limiter.Allow(ctx.Context(), key, scopes)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("path", operationPath(ctx)), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			msg := "rate limit exceeded"
			if exceeded != nil {
				msg = fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
					exceeded.Scope, exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)
				logger.Warn("rate limit exceeded",
					zap.String("path", operationPath(ctx)),
					zap.String("method", ctx.Method()),
					zap.String("scope", string(exceeded.Scope)),
					zap.Int64("count", exceeded.Count),
					zap.Int64("max", exceeded.Config.Max),
					zap.Duration("window", exceeded.Config.Window),
					zap.String("client_ip", extractClientIP(ctx)),
				)
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// checkCustomLimits applies the endpoint's own limits. Returns true when the
// request is allowed.
//
// The rate limit key uses the operation's route template, so all requests
// matching the same route share counters per client regardless of path
// parameter values.
func checkCustomLimits(
	api huma.API,
	ctx huma.Context,
	store ratelimit.Store,
	limits []ratelimit.LimitConfig,
	logger *zap.Logger,
) bool {
	clientK := clientKey(ctx)
	path := operationPath(ctx)

	for _, limit := range limits {
		key := fmt.Sprintf("%s:custom:%s:%d", clientK, path, limit.Window.Milliseconds())

		count, err := store.Record(ctx.Context(), key, limit.Window)
		if err != nil {
			logger.Error("custom rate limit check failed",
				zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return false
		}

		if count > limit.Max {
			logger.Warn("custom rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.Int64("count", count),
				zap.Int64("max", limit.Max),
				zap.Duration("window", limit.Window),
				zap.String("client_ip", extractClientIP(ctx)),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded: %d/%d requests in %s", count, limit.Max, limit.Window))

			return false
		}
	}

	return true
}

// clientKey derives a stable rate limiting key from IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := extractClientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
