package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// labelsKey is the hash of cache key -> human readable label
func (c *Cache) labelsKey() string {
	return fmt.Sprintf("%s:cache-labels", c.prefix)
}

// orderKey is the sorted set of cache keys scored by insertion time
func (c *Cache) orderKey() string {
	return fmt.Sprintf("%s:cache-order", c.prefix)
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, found, err := c.GetBytes(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// GetBytes retrieves the raw cached payload
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.client.Enabled() {
		return nil, false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Key not found is not an error
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	return data, true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	_, err = c.SetEntry(ctx, key, key, data, ttl, 0)
	return err
}

// SetEntry stores a raw payload and indexes its label for pattern clears.
// With maxEntries > 0 the oldest inserted entries beyond the bound are
// evicted; the number evicted is returned.
func (c *Cache) SetEntry(ctx context.Context, key, label string, data []byte, ttl time.Duration, maxEntries int) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	rdb := c.client.Redis()
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, c.fullKey(key), data, ttl)
	pipe.HSet(ctx, c.labelsKey(), key, label)
	pipe.ZAdd(ctx, c.orderKey(), redis.Z{Score: float64(time.Now().UnixNano()), Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("cache set failed: %w", err)
	}

	if maxEntries <= 0 {
		return 0, nil
	}

	count, err := rdb.ZCard(ctx, c.orderKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("cache size failed: %w", err)
	}
	overflow := count - int64(maxEntries)
	if overflow <= 0 {
		return 0, nil
	}

	oldest, err := rdb.ZPopMin(ctx, c.orderKey(), overflow).Result()
	if err != nil {
		return 0, fmt.Errorf("cache evict failed: %w", err)
	}
	keys := make([]string, 0, len(oldest))
	for _, z := range oldest {
		if k, ok := z.Member.(string); ok {
			keys = append(keys, k)
		}
	}
	return len(keys), c.Delete(ctx, keys...)
}

// Entries returns live cache keys with their labels. Index entries whose
// payload already expired are pruned on the way.
func (c *Cache) Entries(ctx context.Context) (map[string]string, error) {
	if !c.client.Enabled() {
		return map[string]string{}, nil
	}

	rdb := c.client.Redis()
	labels, err := rdb.HGetAll(ctx, c.labelsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("cache index read failed: %w", err)
	}

	live := make(map[string]string, len(labels))
	var stale []string
	for key, label := range labels {
		n, err := rdb.Exists(ctx, c.fullKey(key)).Result()
		if err != nil {
			return nil, fmt.Errorf("cache exists failed: %w", err)
		}
		if n == 0 {
			stale = append(stale, key)
			continue
		}
		live[key] = label
	}

	if len(stale) > 0 {
		members := make([]interface{}, len(stale))
		for i, k := range stale {
			members[i] = k
		}
		rdb.HDel(ctx, c.labelsKey(), stale...)
		rdb.ZRem(ctx, c.orderKey(), members...)
	}

	return live, nil
}

// Delete removes cached values and their index entries
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.client.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
		members[i] = k
	}

	pipe := c.client.Redis().TxPipeline()
	pipe.Del(ctx, full...)
	pipe.HDel(ctx, c.labelsKey(), keys...)
	pipe.ZRem(ctx, c.orderKey(), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Predefined TTLs
const (
	TTLShort        = 1 * time.Minute
	TTLFundamentals = 6 * time.Hour // 분기 재무제표
	TTLDaily        = 24 * time.Hour
)
