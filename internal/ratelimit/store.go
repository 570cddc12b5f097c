package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per client key over a sliding window.
type Store interface {
	// Record registers one request for key and returns how many requests
	// fall inside the current window, pruning entries older than it.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
