package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/trending-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryStore(t *testing.T) {
	t.Run("records and counts requests", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(context.Background(), "key1", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Record(context.Background(), "key1", time.Minute)
		_, _ = s.Record(context.Background(), "key1", time.Minute)

		count, err := s.Record(context.Background(), "key2", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "key2 should have its own counter")
	})

	t.Run("prunes entries that slid out of the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Record(context.Background(), "key1", 50*time.Millisecond)
		_, _ = s.Record(context.Background(), "key1", 50*time.Millisecond)

		time.Sleep(60 * time.Millisecond)

		count, err := s.Record(context.Background(), "key1", 50*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired entries should be pruned")
	})
}
