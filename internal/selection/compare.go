package selection

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/logger"
)

// Comparer computes TTM metrics for a handful of tickers side by side
type Comparer struct {
	source   TTMSource
	max      int
	throttle *rate.Limiter
	logger   *logger.Logger
}

// NewComparer creates a new comparer
func NewComparer(source TTMSource, cfg Config, log *logger.Logger) *Comparer {
	return &Comparer{
		source:   source,
		max:      cfg.CompareMax,
		throttle: newThrottle(cfg.CompareDelay),
		logger:   log.WithComponent("compare"),
	}
}

// Compare returns one TTM result per computable ticker, sorted by
// revenue_ttm descending with absent revenue ranked as 0.
// A failing ticker is logged and left out.
func (c *Comparer) Compare(ctx context.Context, req contracts.CompareRequest) ([]contracts.TTMResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if c.max > 0 && len(req.Tickers) > c.max {
		return nil, fmt.Errorf("%w: %d tickers requested, maximum is %d", contracts.ErrTooManyTickers, len(req.Tickers), c.max)
	}

	results := make([]contracts.TTMResult, 0, len(req.Tickers))
	failed := 0

	for _, ticker := range req.Tickers {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := safeTTM(ctx, c.source, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Compare ticker failed")
			continue
		}
		results = append(results, result)
	}

	Ranker{Field: contracts.FieldRevenueTTM, Desc: true, MissingAsZero: true}.Rank(results)

	c.logger.WithFields(map[string]interface{}{
		"requested": len(req.Tickers),
		"returned":  len(results),
		"failed":    failed,
	}).Info("Compare completed")

	return results, nil
}
