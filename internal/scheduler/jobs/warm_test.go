package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/internal/cache"
	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/internal/fundamentals"
	"github.com/wonny/stockscope/pkg/logger"
)

// countingProvider serves eight identical quarters and counts round-trips
type countingProvider struct {
	calls atomic.Int32
}

func quarters(value float64) contracts.RawSeries {
	raw := contracts.RawSeries{}
	for _, d := range []string{
		"2022-03-31", "2022-06-30", "2022-09-30", "2022-12-31",
		"2023-03-31", "2023-06-30", "2023-09-30", "2023-12-31",
	} {
		raw[d] = value
	}
	return raw
}

func (p *countingProvider) GetQuarterlyIncomeStatement(context.Context, string) (contracts.StatementTable, error) {
	p.calls.Add(1)
	return contracts.StatementTable{
		"Total Revenue":    quarters(100),
		"Operating Income": quarters(20),
	}, nil
}

func (p *countingProvider) GetQuarterlyCashflow(context.Context, string) (contracts.StatementTable, error) {
	p.calls.Add(1)
	return contracts.StatementTable{
		"Operating Cash Flow": quarters(30),
		"Capital Expenditure": quarters(-5),
	}, nil
}

func (p *countingProvider) GetQuarterlyBalanceSheet(context.Context, string) (contracts.StatementTable, error) {
	p.calls.Add(1)
	return contracts.StatementTable{
		"Total Debt":                quarters(50),
		"Cash And Cash Equivalents": quarters(25),
	}, nil
}

func TestWarmJobPrimesTTM(t *testing.T) {
	provider := &countingProvider{}
	store := cache.NewMemoryStore(50, time.Hour)
	svc := fundamentals.NewService(fundamentals.NewFetcher(provider, time.Second, logger.Nop()), store, logger.Nop())
	ctx := context.Background()

	job := NewWarmJob(svc, []string{"AAPL", "MSFT"}, "", 0, logger.Nop())
	require.NoError(t, job.Run(ctx))
	warmed := provider.calls.Load()
	assert.Equal(t, int32(6), warmed)

	for _, ticker := range []string{"AAPL", "MSFT"} {
		r, err := svc.TTM(ctx, ticker)
		require.NoError(t, err)
		require.NotNil(t, r.RevenueTTM, ticker)
		assert.Equal(t, 400.0, *r.RevenueTTM)
	}
	assert.Equal(t, warmed, provider.calls.Load(), "TTM after a warm run makes no provider calls")
}
