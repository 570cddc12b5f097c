package trending

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultConfigID is the sentinel trend list id holding fallback tunables.
const DefaultConfigID = "default"

// InteractionRecord is one recorded interaction with its reversal deadline.
// The full triple is the natural key; records are never updated in place.
type InteractionRecord struct {
	ItemID              string `json:"itemId"`
	TrendListID         string `json:"trendListId"`
	ExpirationTimestamp int64  `json:"expirationTimestamp"` // epoch millis
}

// Valid reports whether the record carries the full natural key.
func (r InteractionRecord) Valid() bool {
	return r.ItemID != "" && r.TrendListID != "" && r.ExpirationTimestamp > 0
}

// ItemCount is the current aggregate score of one item within one trend list.
type ItemCount struct {
	ItemID           string
	InteractionCount int64
}

// Config holds the per-trend-list tunables.
type Config struct {
	TrendListLimit    int `json:"trendListLimit"`
	AggregationWindow int `json:"aggregationWindow"` // minutes until an interaction expires
}

// ExpirationFor returns the reversal deadline for an interaction recorded at t.
func (c Config) ExpirationFor(t time.Time) int64 {
	return t.UnixMilli() + int64(c.AggregationWindow)*time.Minute.Milliseconds()
}

// Summary is the outcome of one reconcile pass.
type Summary struct {
	HasRemovals bool
}

// RankedList is a count-descending sequence of items. It serializes as a
// JSON object mapping itemId to count, preserving rank order on the wire.
type RankedList []ItemCount

// MarshalJSON writes the list as an ordered {"itemId": count, ...} object.
func (l RankedList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(item.ItemID)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", item.InteractionCount)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads an {"itemId": count, ...} object keeping key order.
func (l *RankedList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ranked list: expected JSON object, got %v", tok)
	}

	out := RankedList{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranked list: unexpected key token %v", keyTok)
		}

		var count int64
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("ranked list: count for %q: %w", key, err)
		}

		out = append(out, ItemCount{ItemID: key, InteractionCount: count})
	}

	*l = out

	return nil
}
