package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wonny/stockscope/pkg/logger"
	"github.com/wonny/stockscope/pkg/redis"
)

// RedisStore keeps entries in Redis so several API instances share one
// cache. Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	cache   *redis.Cache
	ttl     time.Duration
	maxSize int
	logger  *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore creates a store on top of the shared Redis client
func NewRedisStore(client *redis.Client, prefix string, maxSize int, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{
		cache:   redis.NewCache(client, prefix),
		ttl:     ttl,
		maxSize: maxSize,
		logger:  log,
	}
}

// Get returns the JSON payload as []byte
func (s *RedisStore) Get(ctx context.Context, key string) (any, bool) {
	data, found, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		// Redis 장애는 캐시 미스로 처리
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	if !found {
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return data, true
}

// Set encodes value as JSON and stores it with the store TTL
func (s *RedisStore) Set(ctx context.Context, key, label string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", label, err)
	}

	evicted, err := s.cache.SetEntry(ctx, key, label, data, s.ttl, s.maxSize)
	if err != nil {
		return err
	}
	if evicted > 0 {
		s.logger.WithField("evicted", evicted).Debug("Cache evicted oldest entries")
	}
	return nil
}

// Clear drops every entry under the store prefix
func (s *RedisStore) Clear(ctx context.Context) (int, error) {
	return s.ClearPattern(ctx, "")
}

// ClearPattern drops entries whose label (or key) matches pattern
func (s *RedisStore) ClearPattern(ctx context.Context, pattern string) (int, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return 0, err
	}

	var keys []string
	for key, label := range entries {
		if MatchPattern(pattern, key, label) {
			keys = append(keys, key)
		}
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Stats reports live entries under the prefix
func (s *RedisStore) Stats(ctx context.Context) Stats {
	size := 0
	if entries, err := s.cache.Entries(ctx); err == nil {
		size = len(entries)
	} else {
		s.logger.WithError(err).Warn("Cache stats read failed")
	}

	return Stats{
		Backend: "redis",
		Size:    size,
		MaxSize: s.maxSize,
		TTL:     s.ttl,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}
