package trending

import "context"

// ConfigRepository reads raw trend list config rows. Fields are returned as
// the store's native string representation; the Resolver owns parsing.
type ConfigRepository interface {
	// Get returns the raw field map for the given trend list id, or
	// ErrNotFound when no row exists.
	Get(ctx context.Context, trendListID string) (map[string]string, error)
}

// ConfigWriter provisions trend list config rows with overwrite semantics.
type ConfigWriter interface {
	Put(ctx context.Context, trendListID string, fields map[string]string) error
}

// RecordRepository stores time-bounded interaction records.
type RecordRepository interface {
	// Put persists a record. Writing the same natural key twice overwrites.
	Put(ctx context.Context, rec InteractionRecord) error

	// ExpiredBefore returns every record whose expiration timestamp is
	// strictly before now (epoch millis). This is a filter scan, not an
	// indexed read; callers run it on a coarse schedule.
	ExpiredBefore(ctx context.Context, now int64) ([]InteractionRecord, error)

	// Delete removes a record by its natural key. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, rec InteractionRecord) error
}

// CountRepository holds the rolling per-item counts.
//
// Increment and Decrement are atomic read-modify-writes: an absent row is
// treated as zero, so concurrent first-writes never lose updates. Decrement
// floors the stored value at zero.
type CountRepository interface {
	Increment(ctx context.Context, trendListID, itemID string) (int64, error)
	Decrement(ctx context.Context, trendListID, itemID string) (int64, error)

	// TopN returns up to limit items for the trend list ordered by count
	// descending, reflecting all writes completed before the call.
	TopN(ctx context.Context, trendListID string, limit int) (RankedList, error)
}
