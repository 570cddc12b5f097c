package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/trending-go/internal/ratelimit"
)

// RegisterRoutes registers the trending routes with per-endpoint rate limit
// configuration.
func RegisterRoutes(api huma.API, h *TrendingHandler) {
	// Write path: stricter limits.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/trend-lists/{trendListId}/interactions",
		Summary:     "Record an interaction",
		Description: "Records one interaction for an item and returns the refreshed ranking.",
		Tags:        []string{"Trending"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 120},
					{Window: time.Hour, Max: 2000},
				},
			},
		},
	}, h.RecordInteraction)

	// Read path: relaxed limits for high-traffic queries.
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/trend-lists/{trendListId}/items",
		Summary:     "Get trending items",
		Description: "Returns the top items of a trend list ordered by interaction count descending.",
		Tags:        []string{"Trending"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, h.GetTrendingItems)

	// Maintenance path: triggered by the scheduling layer, not end users.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/maintenance/expired-interactions",
		Summary:     "Wipe expired interactions",
		Description: "Sweeps expired interaction records and reverses their count contributions.",
		Tags:        []string{"Maintenance"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.WipeExpiredInteractions)

	// Peer invocation endpoint for split deployments.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/invoke/{function}",
		Summary:     "Invoke a named function",
		Description: "Dispatches a raw JSON payload to a registered function.",
		Tags:        []string{"Invocation"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.InvokeFunction)
}
