package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/trending-go/internal/store"
	"github.com/serroba/trending-go/internal/trending"
)

var (
	errMock       = errors.New("mock error")
	errMockUpdate = errors.New("no way cant update that")
)

// mockRecordStore wraps the in-memory record store, failing selected
// operations.
type mockRecordStore struct {
	inner      *store.MemoryRecordStore
	putErr     error
	expiredErr error
	deleteErr  error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{inner: store.NewMemoryRecordStore()}
}

func (m *mockRecordStore) Put(ctx context.Context, rec trending.InteractionRecord) error {
	if m.putErr != nil {
		return m.putErr
	}

	return m.inner.Put(ctx, rec)
}

func (m *mockRecordStore) ExpiredBefore(ctx context.Context, now int64) ([]trending.InteractionRecord, error) {
	if m.expiredErr != nil {
		return nil, m.expiredErr
	}

	return m.inner.ExpiredBefore(ctx, now)
}

func (m *mockRecordStore) Delete(ctx context.Context, rec trending.InteractionRecord) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	return m.inner.Delete(ctx, rec)
}

// mockCountStore wraps the in-memory count store, failing selected
// operations.
type mockCountStore struct {
	inner  *store.MemoryCountStore
	incErr error
	decErr error
	topErr error
}

func newMockCountStore() *mockCountStore {
	return &mockCountStore{inner: store.NewMemoryCountStore()}
}

func (m *mockCountStore) Increment(ctx context.Context, trendListID, itemID string) (int64, error) {
	if m.incErr != nil {
		return 0, m.incErr
	}

	return m.inner.Increment(ctx, trendListID, itemID)
}

func (m *mockCountStore) Decrement(ctx context.Context, trendListID, itemID string) (int64, error) {
	if m.decErr != nil {
		return 0, m.decErr
	}

	return m.inner.Decrement(ctx, trendListID, itemID)
}

func (m *mockCountStore) TopN(ctx context.Context, trendListID string, limit int) (trending.RankedList, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}

	return m.inner.TopN(ctx, trendListID, limit)
}

// Compile-time checks.
var (
	_ trending.RecordRepository = (*mockRecordStore)(nil)
	_ trending.CountRepository  = (*mockCountStore)(nil)
)
