package trending_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serroba/trending-go/internal/trending"
)

func TestRankedList_JSON(t *testing.T) {
	t.Run("marshals as an object keyed by item id in rank order", func(t *testing.T) {
		list := trending.RankedList{
			{ItemID: "sandal", InteractionCount: 7},
			{ItemID: "boot", InteractionCount: 3},
			{ItemID: "clog", InteractionCount: 1},
		}

		body, err := json.Marshal(list)
		require.NoError(t, err)
		assert.Equal(t, `{"sandal":7,"boot":3,"clog":1}`, string(body))
	})

	t.Run("empty list marshals as an empty object", func(t *testing.T) {
		body, err := json.Marshal(trending.RankedList{})
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(body))
	})

	t.Run("escapes item ids", func(t *testing.T) {
		body, err := json.Marshal(trending.RankedList{{ItemID: `old "boot"`, InteractionCount: 1}})
		require.NoError(t, err)
		assert.Equal(t, `{"old \"boot\"":1}`, string(body))
	})

	t.Run("unmarshal preserves key order", func(t *testing.T) {
		var list trending.RankedList
		err := json.Unmarshal([]byte(`{"sandal":7,"boot":3,"clog":1}`), &list)
		require.NoError(t, err)

		assert.Equal(t, trending.RankedList{
			{ItemID: "sandal", InteractionCount: 7},
			{ItemID: "boot", InteractionCount: 3},
			{ItemID: "clog", InteractionCount: 1},
		}, list)
	})

	t.Run("rejects non-object payloads", func(t *testing.T) {
		var list trending.RankedList
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &list))
	})

	t.Run("rejects non-integer counts", func(t *testing.T) {
		var list trending.RankedList
		assert.Error(t, json.Unmarshal([]byte(`{"boot":"three"}`), &list))
	})
}

func TestConfig_ExpirationFor(t *testing.T) {
	cfg := trending.Config{TrendListLimit: 3, AggregationWindow: 1}
	at := time.UnixMilli(1573495200000)

	assert.EqualValues(t, 1573495260000, cfg.ExpirationFor(at))

	cfg.AggregationWindow = 60
	assert.EqualValues(t, 1573495200000+60*60*1000, cfg.ExpirationFor(at))
}

func TestInteractionRecord_Valid(t *testing.T) {
	full := trending.InteractionRecord{ItemID: "boot", TrendListID: "shoes", ExpirationTimestamp: 1}
	assert.True(t, full.Valid())

	for name, rec := range map[string]trending.InteractionRecord{
		"missing item id":       {TrendListID: "shoes", ExpirationTimestamp: 1},
		"missing trend list id": {ItemID: "boot", ExpirationTimestamp: 1},
		"missing expiration":    {ItemID: "boot", TrendListID: "shoes"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, rec.Valid())
		})
	}
}
