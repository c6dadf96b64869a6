package fundamentals

import (
	"context"
	"time"

	"github.com/wonny/stockscope/internal/cache"
	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/logger"
)

// Cache function identities
const (
	CacheNameTTM          = "fundamentals.ttm"
	CacheNameSeries       = "fundamentals.series"
	CacheNameFundamentals = "fundamentals.bundle"
)

// Service computes TTM metrics and quarterly series per ticker, memoized
// through the injected cache. Each cache miss costs one FetchQuarterlies.
type Service struct {
	fetcher *Fetcher
	store   cache.Service
	logger  *logger.Logger
	now     func() time.Time

	ttm          cache.Func[string, contracts.TTMResult]
	series       cache.Func[string, contracts.SeriesResult]
	fundamentals cache.Func[string, contracts.FundamentalsResponse]
}

// NewService creates the fundamentals service
func NewService(fetcher *Fetcher, store cache.Service, log *logger.Logger) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   store,
		logger:  log,
		now:     time.Now,
	}
	s.ttm = cache.Cached(store, CacheNameTTM, s.computeTTM, log)
	s.series = cache.Cached(store, CacheNameSeries, s.computeSeries, log)
	s.fundamentals = cache.Cached(store, CacheNameFundamentals, s.computeFundamentals, log)
	return s
}

// TTM returns trailing-twelve-month metrics for ticker
func (s *Service) TTM(ctx context.Context, ticker string) (contracts.TTMResult, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return contracts.TTMResult{}, err
	}
	return s.ttm(ctx, t)
}

// Series returns the quarterly chart series for ticker
func (s *Service) Series(ctx context.Context, ticker string) (contracts.SeriesResult, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return contracts.SeriesResult{}, err
	}
	return s.series(ctx, t)
}

// Fundamentals returns compacted TTM, series and metadata in one payload
func (s *Service) Fundamentals(ctx context.Context, ticker string) (contracts.FundamentalsResponse, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return contracts.FundamentalsResponse{}, err
	}
	return s.fundamentals(ctx, t)
}

func (s *Service) fetch(ctx context.Context, ticker string) (Quarterlies, error) {
	q, err := s.fetcher.FetchQuarterlies(ctx, ticker)
	if err != nil {
		return q, err
	}
	// 호출자 취소로 비어 있는 결과는 캐시하지 않음
	if ctx.Err() != nil {
		return q, ctx.Err()
	}
	return q, nil
}

// storable keeps results built during a transient outage out of the cache,
// so the next request refetches instead of serving the gap for a full TTL
func storable(q Quarterlies) error {
	if q.Transient() {
		return cache.ErrNotStored
	}
	return nil
}

func (s *Service) computeTTM(ctx context.Context, ticker string) (contracts.TTMResult, error) {
	q, err := s.fetch(ctx, ticker)
	if err != nil {
		return contracts.TTMResult{}, err
	}

	result := BuildTTM(q)
	s.logComputed("TTM computed", q, result.InsufficientData)
	return result, storable(q)
}

func (s *Service) computeSeries(ctx context.Context, ticker string) (contracts.SeriesResult, error) {
	q, err := s.fetch(ctx, ticker)
	if err != nil {
		return contracts.SeriesResult{}, err
	}
	return BuildSeries(q), storable(q)
}

// computeFundamentals also seeds the TTM and series entries from the same
// fetch, so a warmed bundle serves compare and screen without provider calls
func (s *Service) computeFundamentals(ctx context.Context, ticker string) (contracts.FundamentalsResponse, error) {
	q, err := s.fetch(ctx, ticker)
	if err != nil {
		return contracts.FundamentalsResponse{}, err
	}

	ttm := BuildTTM(q)
	series := BuildSeries(q)
	s.logComputed("Fundamentals computed", q, ttm.InsufficientData)

	resp := contracts.FundamentalsResponse{
		Ticker: ticker,
		TTM:    Compact(ttm.Record()),
		Series: Compact(series.Record()),
		Metadata: contracts.FundamentalsMetadata{
			DataType:         "quarterly",
			PeriodsAvailable: q.Series(MetricRevenue).Len(),
			LastUpdated:      s.now().UTC(),
			InsufficientData: ttm.InsufficientData,
		},
	}

	if err := storable(q); err != nil {
		return resp, err
	}
	s.seed(ctx, CacheNameTTM, ticker, ttm)
	s.seed(ctx, CacheNameSeries, ticker, series)
	return resp, nil
}

func (s *Service) seed(ctx context.Context, name, ticker string, value any) {
	if err := cache.Put(ctx, s.store, name, ticker, value); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"cache":  name,
		}).Warn("Cache seed failed")
	}
}

func (s *Service) logComputed(msg string, q Quarterlies, insufficient bool) {
	fields := map[string]interface{}{
		"ticker":       q.Ticker,
		"quarters":     q.Series(MetricRevenue).Len(),
		"insufficient": insufficient,
	}
	if q.Degraded() {
		failed := make([]string, 0, len(q.Errors))
		for _, st := range contracts.Statements {
			if q.Errors[st] != nil {
				failed = append(failed, string(st))
			}
		}
		fields["failed_statements"] = failed
		s.logger.WithFields(fields).Warn(msg)
		return
	}
	s.logger.WithFields(fields).Debug(msg)
}

// BuildTTM derives the TTM result from fetched quarterlies
func BuildTTM(q Quarterlies) contracts.TTMResult {
	revenue := q.Series(MetricRevenue)
	opIncome := q.Series(MetricOperatingIncome)
	ebitda := q.Series(MetricEBITDA)
	fcf := q.Series(MetricFreeCashFlow)

	r := contracts.TTMResult{
		Ticker:           q.Ticker,
		InsufficientData: IsInsufficient(revenue, opIncome),
	}

	r.RevenueTTM = optional(TTM(revenue))
	r.OperatingIncomeTTM = optional(TTM(opIncome))
	r.FCFTTM = optional(TTM(fcf))
	r.EBITDATTM = optional(TTM(ebitda))
	r.OperatingMarginTTM = optional(Margin(r.OperatingIncomeTTM, r.RevenueTTM))
	r.FCFMarginTTM = optional(Margin(r.FCFTTM, r.RevenueTTM))

	r.RevenueGrowthYoY = optional(YoYGrowth(revenue))
	r.FCFGrowthYoY = optional(YoYGrowth(fcf))
	r.EBITDAGrowthYoY = optional(YoYGrowth(ebitda))
	r.MarginGrowthYoYPP = optional(MarginGrowthPP(opIncome, revenue))

	lev := ComputeLeverage(q.Series(MetricTotalDebt), q.Series(MetricCashAndEquivalents))
	r.TotalDebt = lev.TotalDebt
	r.CashAndEquivalents = lev.CashAndEquivalents
	r.NetDebt = lev.NetDebt
	r.DebtToCash = lev.DebtToCash

	return r
}

// BuildSeries derives the chart series; empty series are left nil
func BuildSeries(q Quarterlies) contracts.SeriesResult {
	revenue := q.Series(MetricRevenue)
	opIncome := q.Series(MetricOperatingIncome)
	fcf := q.Series(MetricFreeCashFlow)

	return contracts.SeriesResult{
		Revenue:         nonEmpty(revenue),
		OperatingIncome: nonEmpty(opIncome),
		OperatingMargin: nonEmpty(RatioSeries(opIncome, revenue)),
		FCF:             nonEmpty(fcf),
		FCFMargin:       nonEmpty(RatioSeries(fcf, revenue)),
		EBITDA:          nonEmpty(q.Series(MetricEBITDA)),
	}
}

func nonEmpty(s contracts.MetricSeries) contracts.MetricSeries {
	if s.IsEmpty() {
		return nil
	}
	return s
}
