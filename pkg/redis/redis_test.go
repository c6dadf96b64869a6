package redis

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/stockscope/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewFromRedis_Nil(t *testing.T) {
	if NewFromRedis(nil).Enabled() {
		t.Error("Expected nil go-redis client to be disabled")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), YahooRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != YahooRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", YahooRateLimit.Limit, remaining)
	}

	if err := limiter.Wait(context.Background(), YahooRateLimit); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestRateLimitConfig_WithLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{10, 10},
		{0, YahooRateLimit.Limit},
		{-1, YahooRateLimit.Limit},
	}

	for _, tt := range tests {
		got := YahooRateLimit.WithLimit(tt.limit)
		if got.Limit != tt.want {
			t.Errorf("WithLimit(%d).Limit = %d, want %d", tt.limit, got.Limit, tt.want)
		}
		if got.Key != "yahoo" || got.Window != time.Second {
			t.Errorf("WithLimit(%d) changed key/window: %+v", tt.limit, got)
		}
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	if err := cache.Set(ctx, "key", "value", TTLShort); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	entries, err := cache.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %v", entries)
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestCacheKeys(t *testing.T) {
	cache := NewCache(disabledClient(t), "stockscope")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"payload key", cache.fullKey("ttm:abc"), "stockscope:cache:ttm:abc"},
		{"label index", cache.labelsKey(), "stockscope:cache-labels"},
		{"insertion order", cache.orderKey(), "stockscope:cache-order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
