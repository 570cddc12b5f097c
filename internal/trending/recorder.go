package trending

import (
	"context"
	"encoding/json"
	"time"

	"github.com/serroba/trending-go/internal/invoke"
	"github.com/serroba/trending-go/internal/messaging"
	"go.uber.org/zap"
)

// Recorder is the write path: persist an interaction record, increment the
// item's rolling count, then invoke the trending query and hand its result
// back verbatim.
type Recorder struct {
	resolver *Resolver
	records  RecordRepository
	counts   CountRepository
	invoker  invoke.Invoker
	publish  messaging.Publish[InteractionRecordedEvent]
	logger   *zap.Logger
	now      func() time.Time
}

// NewRecorder creates the interaction recorder.
func NewRecorder(
	resolver *Resolver,
	records RecordRepository,
	counts CountRepository,
	invoker invoke.Invoker,
	publish messaging.Publish[InteractionRecordedEvent],
	logger *zap.Logger,
) *Recorder {
	return &Recorder{
		resolver: resolver,
		records:  records,
		counts:   counts,
		invoker:  invoker,
		publish:  publish,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the recorder's time source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now

	return r
}

// Record registers one interaction for (trendListID, itemID) and returns the
// refreshed ranked list for the trend list.
//
// The steps run strictly in sequence and the chain stops at the first
// failure: a failed record write never reaches the increment, and a failed
// increment leaves the record in place to expire through the reconcile path.
// Nothing is rolled back.
func (r *Recorder) Record(ctx context.Context, trendListID, itemID string) (RankedList, error) {
	cfg, err := r.resolver.Resolve(ctx, trendListID)
	if err != nil {
		return nil, err
	}

	rec := InteractionRecord{
		ItemID:              itemID,
		TrendListID:         trendListID,
		ExpirationTimestamp: cfg.ExpirationFor(r.now()),
	}

	if err := r.records.Put(ctx, rec); err != nil {
		return nil, &RecordWriteError{Err: err}
	}

	if _, err := r.counts.Increment(ctx, trendListID, itemID); err != nil {
		return nil, &CountUpdateError{Err: err}
	}

	r.publishRecorded(ctx, rec)

	reply, err := r.invoker.Invoke(ctx, FunctionGetTrendingItems, TrendingItemsRequest{
		TrendListID: trendListID,
		Limit:       cfg.TrendListLimit,
	})
	if err != nil {
		return nil, &InvokeError{Target: FunctionGetTrendingItems, Err: err}
	}

	var list RankedList
	if err := json.Unmarshal(reply, &list); err != nil {
		return nil, &ResponseParseError{Target: FunctionGetTrendingItems, Err: err}
	}

	return list, nil
}

// publishRecorded emits the recorded event. Publishing is best effort; a
// failure is logged and never surfaced to the caller.
func (r *Recorder) publishRecorded(ctx context.Context, rec InteractionRecord) {
	if r.publish == nil {
		return
	}

	meta := RequestMetaFromContext(ctx)
	event := &InteractionRecordedEvent{
		ItemID:              rec.ItemID,
		TrendListID:         rec.TrendListID,
		ExpirationTimestamp: rec.ExpirationTimestamp,
		RecordedAt:          r.now(),
		ClientIP:            meta.ClientIP,
		UserAgent:           meta.UserAgent,
	}

	if err := r.publish(event); err != nil {
		r.logger.Error("failed to publish interaction recorded event",
			zap.String("trend_list_id", rec.TrendListID),
			zap.String("item_id", rec.ItemID),
			zap.Error(err),
		)
	}
}
