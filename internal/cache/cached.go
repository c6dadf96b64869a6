package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wonny/stockscope/pkg/logger"
)

// ErrNotStored may be returned by a Func together with a usable result. The
// result reaches the caller but is kept out of the cache.
var ErrNotStored = errors.New("result not stored")

// Func is a cacheable computation over a single argument value
type Func[A any, T any] func(ctx context.Context, args A) (T, error)

// Cached wraps fn so each distinct args value is computed once per TTL
// window. Errors are returned without being stored. Concurrent misses on the
// same key are not coalesced; both calls compute.
func Cached[A any, T any](store Service, name string, fn Func[A, T], log *logger.Logger) Func[A, T] {
	return func(ctx context.Context, args A) (T, error) {
		key, label, err := Key(name, args)
		if err != nil {
			return fn(ctx, args)
		}

		if v, ok := store.Get(ctx, key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
			if raw, ok := v.([]byte); ok {
				var out T
				if err := json.Unmarshal(raw, &out); err == nil {
					return out, nil
				}
			}
		}

		result, err := fn(ctx, args)
		if errors.Is(err, ErrNotStored) {
			return result, nil
		}
		if err != nil {
			return result, err
		}

		// 저장 실패는 결과에 영향 없음
		if err := store.Set(ctx, key, label, result); err != nil {
			log.WithError(err).WithField("label", label).Warn("Cache write failed")
		}
		return result, nil
	}
}

// Put stores value under the entry Cached(store, name, ...) reads for args
func Put(ctx context.Context, store Service, name string, args any, value any) error {
	key, label, err := Key(name, args)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, label, value)
}
