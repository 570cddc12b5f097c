package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory sliding-window implementation of
// ratelimit.Store.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
	}
}

// Record registers one request under key and returns how many requests fall
// inside the window, pruning entries that slid out of it.
func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	valid := s.requests[key][:0]

	for _, ts := range s.requests[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	valid = append(valid, now)
	s.requests[key] = valid

	return int64(len(valid)), nil
}
