package trending_test

import (
	"context"
	"time"

	"github.com/serroba/trending-go/internal/messaging"
	"github.com/serroba/trending-go/internal/store"
	"github.com/serroba/trending-go/internal/trending"
)

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// fixedClock returns a time source pinned to the given epoch millis.
func fixedClock(millis int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(millis) }
}

// failingRecordStore wraps a record store, failing selected operations.
type failingRecordStore struct {
	inner      *store.MemoryRecordStore
	putErr     error
	expiredErr error
	deleteErr  error
}

func (f *failingRecordStore) Put(ctx context.Context, rec trending.InteractionRecord) error {
	if f.putErr != nil {
		return f.putErr
	}

	return f.inner.Put(ctx, rec)
}

func (f *failingRecordStore) ExpiredBefore(ctx context.Context, now int64) ([]trending.InteractionRecord, error) {
	if f.expiredErr != nil {
		return nil, f.expiredErr
	}

	return f.inner.ExpiredBefore(ctx, now)
}

func (f *failingRecordStore) Delete(ctx context.Context, rec trending.InteractionRecord) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	return f.inner.Delete(ctx, rec)
}

// failingCountStore wraps a count store, failing selected operations and
// recording the order of decrements and deletes it saw.
type failingCountStore struct {
	inner      *store.MemoryCountStore
	incErr     error
	decErr     error
	topErr     error
	decrements []string
}

func (f *failingCountStore) Increment(ctx context.Context, trendListID, itemID string) (int64, error) {
	if f.incErr != nil {
		return 0, f.incErr
	}

	return f.inner.Increment(ctx, trendListID, itemID)
}

func (f *failingCountStore) Decrement(ctx context.Context, trendListID, itemID string) (int64, error) {
	if f.decErr != nil {
		return 0, f.decErr
	}

	f.decrements = append(f.decrements, itemID)

	return f.inner.Decrement(ctx, trendListID, itemID)
}

func (f *failingCountStore) TopN(ctx context.Context, trendListID string, limit int) (trending.RankedList, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}

	return f.inner.TopN(ctx, trendListID, limit)
}
