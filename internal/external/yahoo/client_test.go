package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/config"
	"github.com/wonny/stockscope/pkg/httputil"
	"github.com/wonny/stockscope/pkg/logger"
)

const incomeFixture = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAPL"], "type": ["quarterlyTotalRevenue"]},
        "timestamp": [1680220800, 1688083200],
        "quarterlyTotalRevenue": [
          {"asOfDate": "2023-03-31", "periodType": "3M", "reportedValue": {"raw": 94836000000, "fmt": "94.84B"}},
          {"asOfDate": "2023-06-30", "periodType": "3M", "reportedValue": {"raw": 81797000000, "fmt": "81.80B"}},
          null
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["quarterlyNormalizedEBITDA"]},
        "timestamp": [1680220800],
        "quarterlyNormalizedEBITDA": [
          {"asOfDate": "2023-03-31", "periodType": "3M", "reportedValue": null}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["quarterlyOperatingRevenue"]}
      }
    ],
    "error": null
  }
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Provider: config.ProviderConfig{
			Timeout:    2 * time.Second,
			MaxRetries: 1,
			UserAgent:  "stockscope-test",
		},
	}
	httpClient := httputil.New(cfg, logger.Nop()).WithRetry(1, time.Millisecond)

	c := NewClient(httpClient, server.URL+"/", 3, logger.Nop())
	c.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestGetQuarterlyIncomeStatement(t *testing.T) {
	var query string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, timeseriesPath+"AAPL", r.URL.Path)
		query = r.URL.RawQuery
		w.Write([]byte(incomeFixture))
	})

	table, err := c.GetQuarterlyIncomeStatement(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Contains(t, table, "Total Revenue")
	assert.Equal(t, 94836000000.0, table["Total Revenue"]["2023-03-31"])
	assert.Equal(t, 81797000000.0, table["Total Revenue"]["2023-06-30"])
	assert.Len(t, table["Total Revenue"], 2)

	// null reportedValue는 nil로 유지
	require.Contains(t, table, "Normalized EBITDA")
	v, ok := table["Normalized EBITDA"]["2023-03-31"]
	assert.True(t, ok)
	assert.Nil(t, v)

	// 데이터 없는 항목은 행을 만들지 않음
	assert.NotContains(t, table, "Operating Revenue")

	assert.Contains(t, query, "quarterlyTotalRevenue")
	assert.Contains(t, query, "quarterlyEBITDA")
	assert.Contains(t, query, "period1=1612137600")
	assert.Contains(t, query, "period2=1706745600")
}

func TestRequestedTypesPerStatement(t *testing.T) {
	tests := []struct {
		name  string
		call  func(*Client) (contracts.StatementTable, error)
		wants []string
	}{
		{
			name: "cash flow",
			call: func(c *Client) (contracts.StatementTable, error) {
				return c.GetQuarterlyCashflow(context.Background(), "MSFT")
			},
			wants: []string{"quarterlyOperatingCashFlow", "quarterlyCapitalExpenditure", "quarterlyFreeCashFlow"},
		},
		{
			name: "balance sheet",
			call: func(c *Client) (contracts.StatementTable, error) {
				return c.GetQuarterlyBalanceSheet(context.Background(), "MSFT")
			},
			wants: []string{"quarterlyTotalDebt", "quarterlyCashAndCashEquivalents", "quarterlyCashCashEquivalentsAndShortTermInvestments"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var types string
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				types = r.URL.Query().Get("type")
				w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
			})

			table, err := tt.call(c)
			require.NoError(t, err)
			assert.Empty(t, table)

			got := strings.Split(types, ",")
			for _, want := range tt.wants {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestNotFoundIsRejection(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"timeseries":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
			},
		},
		{
			name: "error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"timeseries":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, tt.handler)

			_, err := c.GetQuarterlyIncomeStatement(context.Background(), "ZZZZ")
			require.Error(t, err)
			assert.ErrorIs(t, err, contracts.ErrTickerRejected)
			assert.False(t, errors.Is(err, contracts.ErrProviderUnavailable))
		})
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	var attempts int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetQuarterlyBalanceSheet(context.Background(), "AAPL")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
	assert.NotErrorIs(t, err, contracts.ErrTickerRejected)

	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts), "one retry")
}

func TestMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timeseries":{"result":[{"meta":{"type":["quarterlyTotalDebt"]},"quarterlyTotalDebt":"oops"}]}}`))
	})

	_, err := c.GetQuarterlyBalanceSheet(context.Background(), "AAPL")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}

func TestCancelledContext(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(incomeFixture))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetQuarterlyIncomeStatement(ctx, "AAPL")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"quarterlyTotalRevenue", "Total Revenue"},
		{"TotalRevenue", "Total Revenue"},
		{"quarterlyEBITDA", "EBITDA"},
		{"quarterlyNormalizedEBITDA", "Normalized EBITDA"},
		{"quarterlyCashCashEquivalentsAndShortTermInvestments", "Cash Cash Equivalents And Short Term Investments"},
		{"quarterlyCurrentDebtAndCapitalLeaseObligation", "Current Debt And Capital Lease Obligation"},
		{"quarterlyCapitalExpenditure", "Capital Expenditure"},
		{"quarterlyFreeCashFlow", "Free Cash Flow"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.key))
		})
	}
}
