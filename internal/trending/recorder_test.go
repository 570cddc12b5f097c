package trending_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serroba/trending-go/internal/invoke"
	"github.com/serroba/trending-go/internal/store"
	"github.com/serroba/trending-go/internal/trending"
)

// staticInvoker replies with canned bytes, or fails.
type staticInvoker struct {
	reply []byte
	err   error
}

func (s *staticInvoker) Invoke(_ context.Context, _ string, _ any) ([]byte, error) {
	return s.reply, s.err
}

type recorderFixture struct {
	configs  *store.MemoryConfigStore
	records  *store.MemoryRecordStore
	counts   *store.MemoryCountStore
	recorder *trending.Recorder
}

func newRecorderFixture(t *testing.T, nowMillis int64) *recorderFixture {
	t.Helper()

	configs := store.NewMemoryConfigStore()
	records := store.NewMemoryRecordStore()
	counts := store.NewMemoryCountStore()

	resolver := trending.NewResolver(configs)
	query := trending.NewQuery(resolver, counts)

	invoker := invoke.NewLocal()
	invoker.Register(trending.FunctionGetTrendingItems, query.InvokeHandler())

	recorder := trending.NewRecorder(
		resolver, records, counts, invoker,
		noopPublish[trending.InteractionRecordedEvent](), zap.NewNop(),
	).WithClock(fixedClock(nowMillis))

	return &recorderFixture{configs: configs, records: records, counts: counts, recorder: recorder}
}

func TestRecorder_Record(t *testing.T) {
	const nowMillis = int64(1573495200000)

	t.Run("persists record, bumps count and returns the refreshed ranking", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		list, err := f.recorder.Record(context.Background(), "shoes", "old boot")
		require.NoError(t, err)

		assert.Equal(t, trending.RankedList{{ItemID: "old boot", InteractionCount: 1}}, list)

		stored, err := f.records.ExpiredBefore(context.Background(), math.MaxInt64)
		require.NoError(t, err)
		require.Len(t, stored, 1)

		// one minute aggregation window past the fixed clock
		assert.Equal(t, trending.InteractionRecord{
			ItemID:              "old boot",
			TrendListID:         "shoes",
			ExpirationTimestamp: 1573495260000,
		}, stored[0])
	})

	t.Run("repeated interactions accumulate", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		ctx := context.Background()
		for range 3 {
			_, err := f.recorder.Record(ctx, "shoes", "old boot")
			require.NoError(t, err)
		}

		list, err := f.recorder.Record(ctx, "shoes", "sandal")
		require.NoError(t, err)

		assert.Equal(t, trending.RankedList{
			{ItemID: "old boot", InteractionCount: 3},
			{ItemID: "sandal", InteractionCount: 1},
		}, list)
	})

	t.Run("ranking is capped at the configured trend list limit", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "2", "1")

		ctx := context.Background()
		for _, item := range []string{"boot", "sandal", "clog"} {
			_, err := f.recorder.Record(ctx, "shoes", item)
			require.NoError(t, err)
		}

		list, err := f.recorder.Record(ctx, "shoes", "boot")
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, "boot", list[0].ItemID)
		assert.EqualValues(t, 2, list[0].InteractionCount)
	})

	t.Run("falls back to the default config row", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, trending.DefaultConfigID, "5", "1")

		list, err := f.recorder.Record(context.Background(), "hats", "fedora")
		require.NoError(t, err)
		assert.Equal(t, trending.RankedList{{ItemID: "fedora", InteractionCount: 1}}, list)
	})

	t.Run("missing config fails before any write", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)

		_, err := f.recorder.Record(context.Background(), "shoes", "old boot")

		var notFound *trending.ConfigNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Zero(t, f.records.Len())
	})

	t.Run("a failed record write never reaches the increment", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		cause := errors.New("table gone")
		records := &failingRecordStore{inner: store.NewMemoryRecordStore(), putErr: cause}
		recorder := trending.NewRecorder(
			trending.NewResolver(f.configs), records, f.counts,
			&staticInvoker{}, nil, zap.NewNop(),
		).WithClock(fixedClock(nowMillis))

		_, err := recorder.Record(context.Background(), "shoes", "old boot")

		var writeErr *trending.RecordWriteError
		require.ErrorAs(t, err, &writeErr)
		assert.ErrorIs(t, err, cause)

		list, err := f.counts.TopN(context.Background(), "shoes", 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("a failed increment leaves the record in place", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		counts := &failingCountStore{inner: store.NewMemoryCountStore(), incErr: errors.New("conn reset")}
		recorder := trending.NewRecorder(
			trending.NewResolver(f.configs), f.records, counts,
			&staticInvoker{}, nil, zap.NewNop(),
		).WithClock(fixedClock(nowMillis))

		_, err := recorder.Record(context.Background(), "shoes", "old boot")

		var countErr *trending.CountUpdateError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, 1, f.records.Len())
	})

	t.Run("invocation failure surfaces as an invoke error", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		recorder := trending.NewRecorder(
			trending.NewResolver(f.configs), f.records, f.counts,
			&staticInvoker{err: errors.New("function unavailable")}, nil, zap.NewNop(),
		).WithClock(fixedClock(nowMillis))

		_, err := recorder.Record(context.Background(), "shoes", "old boot")

		var invokeErr *trending.InvokeError
		require.ErrorAs(t, err, &invokeErr)
		assert.Equal(t, trending.FunctionGetTrendingItems, invokeErr.Target)
	})

	t.Run("unparseable invocation reply surfaces as a parse error", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		recorder := trending.NewRecorder(
			trending.NewResolver(f.configs), f.records, f.counts,
			&staticInvoker{reply: []byte("not json")}, nil, zap.NewNop(),
		).WithClock(fixedClock(nowMillis))

		_, err := recorder.Record(context.Background(), "shoes", "old boot")

		var parseErr *trending.ResponseParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("a failed event publish does not fail the request", func(t *testing.T) {
		f := newRecorderFixture(t, nowMillis)
		seedConfig(t, f.configs, "shoes", "3", "1")

		invoker := invoke.NewLocal()
		invoker.Register(trending.FunctionGetTrendingItems,
			trending.NewQuery(trending.NewResolver(f.configs), f.counts).InvokeHandler())

		recorder := trending.NewRecorder(
			trending.NewResolver(f.configs), f.records, f.counts, invoker,
			errorPublish[trending.InteractionRecordedEvent](errors.New("broker down")),
			zap.NewNop(),
		).WithClock(fixedClock(nowMillis))

		list, err := recorder.Record(context.Background(), "shoes", "old boot")
		require.NoError(t, err)
		assert.Equal(t, trending.RankedList{{ItemID: "old boot", InteractionCount: 1}}, list)
	})
}
