package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/internal/api/handlers"
	"github.com/wonny/stockscope/internal/cache"
	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/logger"
)

func ptr(v float64) *float64 { return &v }

type fakeService struct{}

func (fakeService) TTM(ctx context.Context, ticker string) (contracts.TTMResult, error) {
	switch ticker {
	case "AAPL":
		return contracts.TTMResult{Ticker: "AAPL", RevenueTTM: ptr(545)}, nil
	case "":
		return contracts.TTMResult{}, fmt.Errorf("%w: empty ticker", contracts.ErrInvalidTicker)
	case "ZZZZ":
		return contracts.TTMResult{}, fmt.Errorf("yahoo: %w", contracts.ErrTickerRejected)
	case "PANIC":
		panic("boom")
	}
	return contracts.TTMResult{}, errors.New("unexpected")
}

func (fakeService) Series(ctx context.Context, ticker string) (contracts.SeriesResult, error) {
	day := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	return contracts.SeriesResult{
		Revenue: contracts.MetricSeries{{Date: day, Value: 150}},
	}, nil
}

func (fakeService) Fundamentals(ctx context.Context, ticker string) (contracts.FundamentalsResponse, error) {
	return contracts.FundamentalsResponse{
		Ticker: ticker,
		TTM:    map[string]any{"ticker": ticker, "insufficient_data": true},
		Series: map[string]any{},
		Metadata: contracts.FundamentalsMetadata{
			DataType: "quarterly",
		},
	}, nil
}

type fakeComparer struct{ got contracts.CompareRequest }

func (f *fakeComparer) Compare(ctx context.Context, req contracts.CompareRequest) ([]contracts.TTMResult, error) {
	f.got = req
	if len(req.Tickers) > 2 {
		return nil, contracts.ErrTooManyTickers
	}
	return []contracts.TTMResult{{Ticker: "MSFT", RevenueTTM: ptr(900)}, {Ticker: "AAPL"}}, nil
}

type fakeScreener struct{}

func (fakeScreener) Screen(ctx context.Context, req contracts.ScreenerRequest) (contracts.ScreenerResponse, error) {
	if req.Limit > 500 {
		return contracts.ScreenerResponse{}, contracts.ErrInvalidRequest
	}
	return contracts.ScreenerResponse{
		Results:        []map[string]any{{"ticker": "AAPL"}},
		TotalScreened:  3,
		FiltersApplied: map[string]any{"sort_by": "revenue_growth_yoy"},
	}, nil
}

type testEnv struct {
	router   http.Handler
	store    *cache.MemoryStore
	comparer *fakeComparer
}

func newTestEnv() testEnv {
	log := logger.Nop()
	store := cache.NewMemoryStore(10, time.Hour)
	comparer := &fakeComparer{}
	fh := handlers.NewFundamentalsHandler(fakeService{}, comparer, fakeScreener{}, log)
	ch := handlers.NewCacheHandler(store, log)
	return testEnv{router: NewRouter(fh, ch, log), store: store, comparer: comparer}
}

func (e testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := newTestEnv().do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, map[string]string{"status": "ok", "service": "fundamentals"}, body)
}

func TestRequestID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestGetTTM(t *testing.T) {
	tests := []struct {
		name   string
		ticker string
		status int
	}{
		{"ok", "AAPL", http.StatusOK},
		{"rejected", "ZZZZ", http.StatusNotFound},
		{"server error", "OOPS", http.StatusInternalServerError},
		{"panic is recovered", "PANIC", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestEnv().do(http.MethodGet, "/api/fundamentals/"+tt.ticker+"/ttm", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := newTestEnv().do(http.MethodGet, "/api/fundamentals/AAPL/ttm", "")
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, 545.0, body["revenue_ttm"])
	assert.Equal(t, false, body["insufficient_data"])
	assert.NotContains(t, body, "fcf_ttm", "absent fields are compacted away")

	rec = newTestEnv().do(http.MethodGet, "/api/fundamentals/OOPS/ttm", "")
	var errBody map[string]string
	decode(t, rec, &errBody)
	assert.Equal(t, "Error fetching TTM fundamentals for OOPS", errBody["error"])
}

func TestGetSeries(t *testing.T) {
	rec := newTestEnv().do(http.MethodGet, "/api/fundamentals/AAPL/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"revenue":[{"date":"2023-12-31","value":150}]}`, rec.Body.String())
}

func TestGetFundamentals(t *testing.T) {
	rec := newTestEnv().do(http.MethodGet, "/api/fundamentals/AAPL", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body contracts.FundamentalsResponse
	decode(t, rec, &body)
	assert.Equal(t, "AAPL", body.Ticker)
	assert.Equal(t, "quarterly", body.Metadata.DataType)
}

func TestCompare(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/fundamentals/compare", `{"tickers":["AAPL","MSFT"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"AAPL", "MSFT"}, env.comparer.got.Tickers)

	var body []map[string]any
	decode(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "MSFT", body[0]["ticker"])
	assert.NotContains(t, body[1], "revenue_ttm")

	rec = env.do(http.MethodPost, "/api/fundamentals/compare", `{"tickers":["A","B","C"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/fundamentals/compare", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreener(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/fundamentals/screener", `{"universe":["AAPL"],"min_revenue_growth_yoy":0.1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body contracts.ScreenerResponse
	decode(t, rec, &body)
	assert.Equal(t, 3, body.TotalScreened)
	assert.Len(t, body.Results, 1)

	rec = env.do(http.MethodPost, "/api/fundamentals/screener", `{"limit":1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, "k1", "fundamentals.ttm:AAPL", 1))
	require.NoError(t, env.store.Set(ctx, "k2", "fundamentals.ttm:MSFT", 2))
	require.NoError(t, env.store.Set(ctx, "k3", "fundamentals.series:AAPL", 3))

	rec := env.do(http.MethodGet, "/api/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]any
	decode(t, rec, &stats)
	assert.Equal(t, 3.0, stats["size"])
	assert.Equal(t, 10.0, stats["maxsize"])
	assert.Equal(t, 3600.0, stats["ttl"])

	rec = env.do(http.MethodDelete, "/api/cache?pattern=*AAPL*", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared map[string]any
	decode(t, rec, &cleared)
	assert.Equal(t, 2.0, cleared["cleared"])
	assert.Equal(t, "*AAPL*", cleared["pattern"])

	rec = env.do(http.MethodDelete, "/api/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cleared)
	assert.Equal(t, 1.0, cleared["cleared"])
	assert.Equal(t, 0, env.store.Stats(ctx).Size)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := newTestEnv().do(http.MethodPut, "/api/cache", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = newTestEnv().do(http.MethodGet, "/api/fundamentals/compare", "")
	assert.Equal(t, http.StatusOK, rec.Code, "GET on compare is a ticker lookup")
}
