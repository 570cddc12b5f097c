package trending

import (
	"context"
	"time"
)

// Topics for trending events.
const (
	TopicInteractionRecorded = "trending.interaction.recorded"
	TopicSweepRequested      = "trending.sweep.requested"
)

// InteractionRecordedEvent is emitted after an interaction is fully recorded
// (record persisted and count incremented).
type InteractionRecordedEvent struct {
	ItemID              string    `json:"itemId"`
	TrendListID         string    `json:"trendListId"`
	ExpirationTimestamp int64     `json:"expirationTimestamp"`
	RecordedAt          time.Time `json:"recordedAt"`
	ClientIP            string    `json:"clientIp,omitempty"`
	UserAgent           string    `json:"userAgent,omitempty"`
}

// SweepRequestedEvent asks the sweeper to run a reconcile pass immediately
// instead of waiting for its next scheduled tick.
type SweepRequestedEvent struct {
	RequestedAt time.Time `json:"requestedAt"`
}

type requestMetaKey struct{}

// RequestMeta holds transport-level request metadata attached to events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
