package selection

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/config"
)

// TTMSource computes TTM metrics for one ticker
type TTMSource interface {
	TTM(ctx context.Context, ticker string) (contracts.TTMResult, error)
}

// UniverseSource supplies the default screener universe
type UniverseSource interface {
	Tickers(ctx context.Context) ([]string, error)
}

// Config bounds the batch operations
type Config struct {
	CompareDelay time.Duration
	ScreenDelay  time.Duration
	CompareMax   int
	UniverseMax  int
}

// ConfigFrom extracts the batch settings from the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		CompareDelay: cfg.Batch.CompareDelay,
		ScreenDelay:  cfg.Batch.ScreenDelay,
		CompareMax:   cfg.Batch.CompareMax,
		UniverseMax:  cfg.Batch.UniverseMax,
	}
}

// DefaultConfig returns the stock batch bounds
func DefaultConfig() Config {
	return Config{
		CompareDelay: 100 * time.Millisecond,
		ScreenDelay:  50 * time.Millisecond,
		CompareMax:   20,
		UniverseMax:  500,
	}
}

// newThrottle spaces provider requests at least delay apart.
// A zero delay disables throttling.
func newThrottle(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// safeTTM isolates one ticker from the batch: a panic becomes an error
func safeTTM(ctx context.Context, src TTMSource, ticker string) (result contracts.TTMResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("computing %s panicked: %v", ticker, r)
		}
	}()
	return src.TTM(ctx, ticker)
}
