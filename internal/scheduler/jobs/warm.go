package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/logger"
)

// DefaultWarmSchedule runs the warm-up every six hours
const DefaultWarmSchedule = "0 0 */6 * * *"

// Warmer computes and caches the fundamentals bundle for a ticker. The
// bundle also fills the TTM and series entries.
type Warmer interface {
	Fundamentals(ctx context.Context, ticker string) (contracts.FundamentalsResponse, error)
}

// WarmJob recomputes a watchlist so first requests hit the cache
// ⭐ SSOT: 캐시 워밍 스케줄은 이 Job에서만
type WarmJob struct {
	warmer   Warmer
	tickers  []string
	schedule string
	delay    time.Duration
	logger   *logger.Logger
}

// NewWarmJob creates a new warm job. An empty schedule uses DefaultWarmSchedule.
func NewWarmJob(warmer Warmer, tickers []string, schedule string, delay time.Duration, log *logger.Logger) *WarmJob {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}
	return &WarmJob{
		warmer:   warmer,
		tickers:  tickers,
		schedule: schedule,
		delay:    delay,
		logger:   log,
	}
}

// Name returns the job name
func (j *WarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *WarmJob) Schedule() string {
	return j.schedule
}

// Run warms every ticker in order. A single failure is logged and skipped;
// the run fails only when no ticker could be warmed.
func (j *WarmJob) Run(ctx context.Context) error {
	if len(j.tickers) == 0 {
		j.logger.Debug("Warm list empty, nothing to do")
		return nil
	}

	warmed, failed := 0, 0
	var lastErr error

	for i, ticker := range j.tickers {
		if i > 0 && j.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(j.delay):
			}
		}

		if _, err := j.warmer.Fundamentals(ctx, ticker); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			lastErr = err
			j.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Cache warm failed for ticker")
			continue
		}
		warmed++
	}

	j.logger.WithFields(map[string]interface{}{
		"warmed": warmed,
		"failed": failed,
	}).Info("Cache warm completed")

	if warmed == 0 {
		return fmt.Errorf("no ticker warmed: %w", lastErr)
	}
	return nil
}
