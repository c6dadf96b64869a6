// Package cache memoizes fundamentals results per ticker.
// Entries expire lazily: nothing sweeps in the background, an expired entry
// is dropped when it is next looked up or written around.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// Service is the result cache
// ⭐ SSOT: 결과 캐시는 이 인터페이스로만 접근
type Service interface {
	// Get returns the cached value. Memory stores hand back the stored value
	// itself; remote stores hand back its JSON encoding as []byte.
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key, label string, value any) error
	Clear(ctx context.Context) (int, error)
	ClearPattern(ctx context.Context, pattern string) (int, error)
	Stats(ctx context.Context) Stats
}

// Stats describes cache occupancy and effectiveness
type Stats struct {
	Backend string        `json:"backend"`
	Size    int           `json:"size"`
	MaxSize int           `json:"maxsize"`
	TTL     time.Duration `json:"-"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
}

// MarshalJSON reports ttl in seconds
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	return json.Marshal(struct {
		alias
		TTL int64 `json:"ttl"`
	}{alias(s), int64(s.TTL / time.Second)})
}

// Key derives the cache key and readable label for a call.
// key = name:sha256(name, args)[:32], label = name:args
func Key(name string, args any) (key, label string, err error) {
	serialized, err := canonical(args)
	if err != nil {
		return "", "", fmt.Errorf("cache key for %s: %w", name, err)
	}

	sum := sha256.Sum256([]byte(name + "\x00" + serialized))
	return name + ":" + hex.EncodeToString(sum[:16]), name + ":" + serialized, nil
}

func canonical(args any) (string, error) {
	if s, ok := args.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MatchPattern reports whether an entry matches a clear pattern. Patterns
// with glob meta characters use path.Match against the label, with or
// without its namespace ("ttm:*AAPL*" matches "fundamentals.ttm:AAPL").
// Anything else is a substring match on label or key.
func MatchPattern(pattern, key, label string) bool {
	if pattern == "" {
		return true
	}
	if strings.ContainsAny(pattern, "*?[") {
		for _, candidate := range []string{label, unqualified(label)} {
			if ok, err := path.Match(pattern, candidate); err == nil && ok {
				return true
			}
		}
		return false
	}
	return strings.Contains(label, pattern) || strings.Contains(key, pattern)
}

// unqualified drops the namespace before the first '.' of the function name
func unqualified(label string) string {
	name, args, found := strings.Cut(label, ":")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if !found {
		return name
	}
	return name + ":" + args
}
