package trending

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/serroba/trending-go/internal/invoke"
)

// FunctionGetTrendingItems is the invocation name of the trending query.
const FunctionGetTrendingItems = "GetTrendingItems"

// TrendingItemsRequest is the invocation payload for the trending query.
// Limit carries the caller's already-resolved config forward; zero means the
// query resolves its own.
type TrendingItemsRequest struct {
	TrendListID string `json:"trendListId"`
	Limit       int    `json:"limit,omitempty"`
}

// Query is the read path: top-N items by count for one trend list.
type Query struct {
	resolver *Resolver
	counts   CountRepository
}

// NewQuery creates the trending query service.
func NewQuery(resolver *Resolver, counts CountRepository) *Query {
	return &Query{resolver: resolver, counts: counts}
}

// Top returns up to limit items ordered by count descending, strongly
// consistent with writes completed before the call. A non-positive limit
// means the caller did not resolve config; the query resolves its own and
// uses the configured trend list limit.
func (q *Query) Top(ctx context.Context, trendListID string, limit int) (RankedList, error) {
	if limit <= 0 {
		cfg, err := q.resolver.Resolve(ctx, trendListID)
		if err != nil {
			return nil, err
		}

		limit = cfg.TrendListLimit
	}

	list, err := q.counts.TopN(ctx, trendListID, limit)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			return nil, err
		}

		return nil, &QueryError{Err: err}
	}

	return list, nil
}

// InvokeHandler adapts the query to the named-invocation contract used by
// the interaction recorder.
func (q *Query) InvokeHandler() invoke.HandlerFunc {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req TrendingItemsRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}

		list, err := q.Top(ctx, req.TrendListID, req.Limit)
		if err != nil {
			return nil, err
		}

		return json.Marshal(list)
	}
}
