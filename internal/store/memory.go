package store

import (
	"context"
	"sort"
	"sync"

	"github.com/serroba/trending-go/internal/trending"
)

// MemoryConfigStore is an in-memory implementation of the config repository
// and writer.
type MemoryConfigStore struct {
	mu      sync.RWMutex
	configs map[string]map[string]string
}

// NewMemoryConfigStore creates a new in-memory config store.
func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{
		configs: make(map[string]map[string]string),
	}
}

func (m *MemoryConfigStore) Get(_ context.Context, trendListID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.configs[trendListID]
	if !ok {
		return nil, trending.ErrNotFound
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	return out, nil
}

func (m *MemoryConfigStore) Put(_ context.Context, trendListID string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := make(map[string]string, len(fields))
	for k, v := range fields {
		row[k] = v
	}

	m.configs[trendListID] = row

	return nil
}

// MemoryRecordStore is an in-memory implementation of the interaction
// record repository.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[trending.InteractionRecord]struct{}
}

// NewMemoryRecordStore creates a new in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: make(map[trending.InteractionRecord]struct{}),
	}
}

func (m *MemoryRecordStore) Put(_ context.Context, rec trending.InteractionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec] = struct{}{}

	return nil
}

func (m *MemoryRecordStore) ExpiredBefore(_ context.Context, now int64) ([]trending.InteractionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []trending.InteractionRecord

	for rec := range m.records {
		if rec.ExpirationTimestamp < now {
			expired = append(expired, rec)
		}
	}

	// Deterministic order: oldest expiration first, key as tie-break.
	sort.Slice(expired, func(i, j int) bool {
		a, b := expired[i], expired[j]
		if a.ExpirationTimestamp != b.ExpirationTimestamp {
			return a.ExpirationTimestamp < b.ExpirationTimestamp
		}

		if a.TrendListID != b.TrendListID {
			return a.TrendListID < b.TrendListID
		}

		return a.ItemID < b.ItemID
	})

	return expired, nil
}

func (m *MemoryRecordStore) Delete(_ context.Context, rec trending.InteractionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, rec)

	return nil
}

// Len reports the number of stored records.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

// MemoryCountStore is an in-memory implementation of the count repository.
type MemoryCountStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int64 // trendListId -> itemId -> count
}

// NewMemoryCountStore creates a new in-memory count store.
func NewMemoryCountStore() *MemoryCountStore {
	return &MemoryCountStore{
		counts: make(map[string]map[string]int64),
	}
}

func (m *MemoryCountStore) Increment(_ context.Context, trendListID, itemID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.list(trendListID)
	list[itemID]++

	return list[itemID], nil
}

func (m *MemoryCountStore) Decrement(_ context.Context, trendListID, itemID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.list(trendListID)

	v := list[itemID] - 1
	if v < 0 {
		v = 0
	}

	list[itemID] = v

	return v, nil
}

func (m *MemoryCountStore) TopN(_ context.Context, trendListID string, limit int) (trending.RankedList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.counts[trendListID]

	ranked := make(trending.RankedList, 0, len(list))
	for itemID, count := range list {
		ranked = append(ranked, trending.ItemCount{ItemID: itemID, InteractionCount: count})
	}

	// Count descending; equal counts fall back to reverse-lexicographic
	// item id, matching the Redis sorted set ordering.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].InteractionCount != ranked[j].InteractionCount {
			return ranked[i].InteractionCount > ranked[j].InteractionCount
		}

		return ranked[i].ItemID > ranked[j].ItemID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func (m *MemoryCountStore) list(trendListID string) map[string]int64 {
	list, ok := m.counts[trendListID]
	if !ok {
		list = make(map[string]int64)
		m.counts[trendListID] = list
	}

	return list
}

// Compile-time checks.
var (
	_ trending.ConfigRepository = (*MemoryConfigStore)(nil)
	_ trending.ConfigWriter     = (*MemoryConfigStore)(nil)
	_ trending.RecordRepository = (*MemoryRecordStore)(nil)
	_ trending.CountRepository  = (*MemoryCountStore)(nil)
)
