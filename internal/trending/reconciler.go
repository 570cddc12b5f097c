package trending

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reconciler is the maintenance path: it finds interaction records whose
// aggregation window has elapsed, reverses their count contribution, and
// removes them.
type Reconciler struct {
	records RecordRepository
	counts  CountRepository
	logger  *zap.Logger
}

// NewReconciler creates the expiry reconciler.
func NewReconciler(records RecordRepository, counts CountRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{records: records, counts: counts, logger: logger}
}

// Reconcile sweeps every record expired before now.
//
// Records are processed strictly one at a time, decrement before delete, to
// bound concurrent write load within one pass and keep ordering
// deterministic. The first decrement or delete failure aborts the remaining
// sequence: already-processed records stay processed, the rest stay pending
// and are picked up by the next run. A record is deleted immediately after
// its decrement succeeds, so a retried run never decrements twice for the
// same record.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) (Summary, error) {
	expired, err := r.records.ExpiredBefore(ctx, now.UnixMilli())
	if err != nil {
		return Summary{}, &ScanError{Err: err}
	}

	for _, rec := range expired {
		if !rec.Valid() {
			return Summary{}, &FormatError{
				Err: fmt.Errorf("expired record missing key fields: %+v", rec),
			}
		}
	}

	if len(expired) == 0 {
		return Summary{HasRemovals: false}, nil
	}

	for _, rec := range expired {
		if _, err := r.counts.Decrement(ctx, rec.TrendListID, rec.ItemID); err != nil {
			return Summary{}, &ReconcileChainError{Record: rec, Err: err}
		}

		if err := r.records.Delete(ctx, rec); err != nil {
			return Summary{}, &ReconcileChainError{Record: rec, Err: err}
		}
	}

	r.logger.Info("reconciled expired interactions",
		zap.Int("removed", len(expired)),
	)

	return Summary{HasRemovals: true}, nil
}
