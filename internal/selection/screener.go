package selection

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/internal/fundamentals"
	"github.com/wonny/stockscope/pkg/logger"
)

// DefaultScreenLimit caps screener results when the request sets no limit
const DefaultScreenLimit = 100

// Screener filters a ticker universe on TTM growth and leverage
// ⭐ SSOT: 스크리닝 필터 로직은 여기서만
type Screener struct {
	source   TTMSource
	universe UniverseSource
	max      int
	throttle *rate.Limiter
	logger   *logger.Logger
}

// NewScreener creates a new screener. universe may be nil, in which case
// every request must carry its own universe.
func NewScreener(source TTMSource, universe UniverseSource, cfg Config, log *logger.Logger) *Screener {
	return &Screener{
		source:   source,
		universe: universe,
		max:      cfg.UniverseMax,
		throttle: newThrottle(cfg.ScreenDelay),
		logger:   log.WithComponent("screener"),
	}
}

// Screen computes every ticker in the universe, drops insufficient ones and
// those failing a filter, then sorts and truncates to the limit.
func (s *Screener) Screen(ctx context.Context, req contracts.ScreenerRequest) (contracts.ScreenerResponse, error) {
	if err := Validate(req); err != nil {
		return contracts.ScreenerResponse{}, err
	}

	universe, err := s.resolveUniverse(ctx, req.Universe)
	if err != nil {
		return contracts.ScreenerResponse{}, err
	}

	ranker := NewRanker(req.SortBy, req.SortDir)
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultScreenLimit
	}

	passed := make([]contracts.TTMResult, 0)
	screened, insufficient, failed := 0, 0, 0

	for _, ticker := range universe {
		if err := s.throttle.Wait(ctx); err != nil {
			return contracts.ScreenerResponse{}, err
		}

		result, err := safeTTM(ctx, s.source, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return contracts.ScreenerResponse{}, ctx.Err()
			}
			failed++
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Screener ticker failed")
			continue
		}
		screened++

		if result.InsufficientData {
			insufficient++
			continue
		}
		if Passes(result, req) {
			passed = append(passed, result)
		}
	}

	ranker.Rank(passed)
	if len(passed) > limit {
		passed = passed[:limit]
	}

	records := make([]map[string]any, len(passed))
	for i, r := range passed {
		records[i] = fundamentals.Compact(r.Record())
	}

	s.logger.WithFields(map[string]interface{}{
		"universe":     len(universe),
		"screened":     screened,
		"insufficient": insufficient,
		"failed":       failed,
		"returned":     len(records),
		"sort_by":      ranker.Field,
	}).Info("Screening completed")

	return contracts.ScreenerResponse{
		Results:        records,
		TotalScreened:  screened,
		FiltersApplied: filtersApplied(req, ranker, limit),
	}, nil
}

func (s *Screener) resolveUniverse(ctx context.Context, requested []string) ([]string, error) {
	universe := requested
	if len(universe) == 0 {
		if s.universe == nil {
			return nil, fmt.Errorf("%w: universe is required", contracts.ErrInvalidRequest)
		}
		var err error
		universe, err = s.universe.Tickers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load universe: %w", err)
		}
	}

	if s.max > 0 && len(universe) > s.max {
		return nil, fmt.Errorf("%w: universe has %d tickers, maximum is %d", contracts.ErrTooManyTickers, len(universe), s.max)
	}
	return universe, nil
}

// Passes reports whether result satisfies every bound set on req.
// A field the result lacks fails any bound that reads it.
func Passes(result contracts.TTMResult, req contracts.ScreenerRequest) bool {
	mins := []struct {
		field string
		bound *float64
	}{
		{contracts.FieldRevenueGrowthYoY, req.MinRevenueGrowthYoY},
		{contracts.FieldFCFGrowthYoY, req.MinFCFGrowthYoY},
		{contracts.FieldMarginGrowthYoYPP, req.MinMarginGrowthYoYPP},
		{contracts.FieldEBITDAGrowthYoY, req.MinEBITDAGrowthYoY},
	}
	for _, m := range mins {
		if m.bound == nil {
			continue
		}
		v, ok := result.Numeric(m.field)
		if !ok || v < *m.bound {
			return false
		}
	}

	if req.MaxDebtToCash != nil {
		v, ok := result.Numeric(contracts.FieldDebtToCash)
		if !ok || v > *req.MaxDebtToCash {
			return false
		}
	}
	return true
}

func filtersApplied(req contracts.ScreenerRequest, ranker Ranker, limit int) map[string]any {
	applied := map[string]any{
		"min_revenue_growth_yoy":   bound(req.MinRevenueGrowthYoY),
		"min_fcf_growth_yoy":       bound(req.MinFCFGrowthYoY),
		"min_margin_growth_yoy_pp": bound(req.MinMarginGrowthYoYPP),
		"min_ebitda_growth_yoy":    bound(req.MinEBITDAGrowthYoY),
		"max_debt_to_cash":         bound(req.MaxDebtToCash),
		"sort_by":                  ranker.Field,
		"sort_dir":                 ranker.Dir(),
		"limit":                    limit,
	}
	return fundamentals.Compact(applied)
}

func bound(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
