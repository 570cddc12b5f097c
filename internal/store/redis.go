package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/trending-go/internal/trending"
)

// decrScript decrements a member's score and floors the stored value at
// zero in the same atomic step.
var decrScript = redis.NewScript(`
local v = tonumber(redis.call('ZINCRBY', KEYS[1], -1, ARGV[1]))
if v < 0 then
  redis.call('ZADD', KEYS[1], 0, ARGV[1])
  return 0
end
return tostring(v)
`)

// RedisCountStore keeps one sorted set per trend list, scored by the rolling
// interaction count. Increment and decrement serialize per key inside Redis,
// and a read placed after a completed write observes that write.
type RedisCountStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCountStore creates a Redis-backed count store. Keys are namespaced
// by the deployment prefix.
func NewRedisCountStore(client *redis.Client, prefix string) *RedisCountStore {
	return &RedisCountStore{client: client, prefix: prefix}
}

func (r *RedisCountStore) Increment(ctx context.Context, trendListID, itemID string) (int64, error) {
	score, err := r.client.ZIncrBy(ctx, r.key(trendListID), 1, itemID).Result()
	if err != nil {
		return 0, err
	}

	return int64(score), nil
}

func (r *RedisCountStore) Decrement(ctx context.Context, trendListID, itemID string) (int64, error) {
	res, err := decrScript.Run(ctx, r.client, []string{r.key(trendListID)}, itemID).Result()
	if err != nil {
		return 0, err
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected decrement reply %q: %w", v, err)
		}

		return int64(score), nil
	default:
		return 0, fmt.Errorf("unexpected decrement reply type %T", res)
	}
}

func (r *RedisCountStore) TopN(ctx context.Context, trendListID string, limit int) (trending.RankedList, error) {
	if limit <= 0 {
		return trending.RankedList{}, nil
	}

	rows, err := r.client.ZRevRangeWithScores(ctx, r.key(trendListID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ranked := make(trending.RankedList, 0, len(rows))

	for _, row := range rows {
		itemID, ok := row.Member.(string)
		if !ok || itemID == "" {
			return nil, &trending.FormatError{
				Err: fmt.Errorf("count row has no item id: %v", row.Member),
			}
		}

		ranked = append(ranked, trending.ItemCount{
			ItemID:           itemID,
			InteractionCount: int64(row.Score),
		})
	}

	return ranked, nil
}

func (r *RedisCountStore) key(trendListID string) string {
	return fmt.Sprintf("%s:counts:%s", r.prefix, trendListID)
}

// RedisConfigStore keeps one hash per trend list config. Field values are
// stored as strings; parsing belongs to the resolver.
type RedisConfigStore struct {
	client *redis.Client
	prefix string
}

// NewRedisConfigStore creates a Redis-backed config store.
func NewRedisConfigStore(client *redis.Client, prefix string) *RedisConfigStore {
	return &RedisConfigStore{client: client, prefix: prefix}
}

func (r *RedisConfigStore) Get(ctx context.Context, trendListID string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, r.key(trendListID)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, trending.ErrNotFound
	}

	return fields, nil
}

// Put writes the full config row, replacing any existing fields.
func (r *RedisConfigStore) Put(ctx context.Context, trendListID string, fields map[string]string) error {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(trendListID))
	pipe.HSet(ctx, r.key(trendListID), values)
	_, err := pipe.Exec(ctx)

	return err
}

func (r *RedisConfigStore) key(trendListID string) string {
	return fmt.Sprintf("%s:config:%s", r.prefix, trendListID)
}

// Compile-time checks.
var (
	_ trending.CountRepository  = (*RedisCountStore)(nil)
	_ trending.ConfigRepository = (*RedisConfigStore)(nil)
	_ trending.ConfigWriter     = (*RedisConfigStore)(nil)
)
