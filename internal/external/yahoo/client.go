package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/httputil"
	"github.com/wonny/stockscope/pkg/logger"
)

const timeseriesPath = "/ws/fundamentals-timeseries/v1/finance/timeseries/"

// Client fetches quarterly statements from Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	baseURL       string
	lookbackYears int
	now           func() time.Time
}

// NewClient creates a new Yahoo Finance fundamentals client
func NewClient(httpClient *httputil.Client, baseURL string, lookbackYears int, log *logger.Logger) *Client {
	if lookbackYears <= 0 {
		lookbackYears = 3
	}
	return &Client{
		httpClient:    httpClient,
		logger:        log,
		baseURL:       strings.TrimRight(baseURL, "/"),
		lookbackYears: lookbackYears,
		now:           time.Now,
	}
}

// Series keys requested per statement, without the "quarterly" prefix
var (
	incomeKeys = []string{
		"TotalRevenue", "OperatingRevenue",
		"OperatingIncome", "TotalOperatingIncomeAsReported",
		"EBITDA", "NormalizedEBITDA",
	}
	cashflowKeys = []string{
		"OperatingCashFlow", "CashFlowFromContinuingOperatingActivities",
		"CapitalExpenditure", "FreeCashFlow",
	}
	balanceKeys = []string{
		"TotalDebt", "CurrentDebt", "CurrentDebtAndCapitalLeaseObligation",
		"LongTermDebt", "LongTermDebtAndCapitalLeaseObligation",
		"CashAndCashEquivalents", "CashCashEquivalentsAndShortTermInvestments",
		"OtherShortTermInvestments",
	}
)

// GetQuarterlyIncomeStatement fetches the quarterly income statement
func (c *Client) GetQuarterlyIncomeStatement(ctx context.Context, ticker string) (contracts.StatementTable, error) {
	return c.fetchStatement(ctx, ticker, contracts.StatementIncome, incomeKeys)
}

// GetQuarterlyCashflow fetches the quarterly cash flow statement
func (c *Client) GetQuarterlyCashflow(ctx context.Context, ticker string) (contracts.StatementTable, error) {
	return c.fetchStatement(ctx, ticker, contracts.StatementCashflow, cashflowKeys)
}

// GetQuarterlyBalanceSheet fetches the quarterly balance sheet
func (c *Client) GetQuarterlyBalanceSheet(ctx context.Context, ticker string) (contracts.StatementTable, error) {
	return c.fetchStatement(ctx, ticker, contracts.StatementBalance, balanceKeys)
}

func (c *Client) fetchStatement(ctx context.Context, ticker string, st contracts.Statement, keys []string) (contracts.StatementTable, error) {
	var resp timeseriesResponse
	err := c.httpClient.GetJSON(ctx, c.statementURL(ticker, keys), &resp)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("yahoo %s %s: %w", st, ticker, contracts.ErrTickerRejected)
		}
		return nil, fmt.Errorf("yahoo %s %s: %w: %w", st, ticker, contracts.ErrProviderUnavailable, err)
	}

	if apiErr := resp.Timeseries.Error; apiErr != nil {
		if strings.EqualFold(apiErr.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo %s %s: %w", st, ticker, contracts.ErrTickerRejected)
		}
		return nil, fmt.Errorf("yahoo %s %s: %w: %s: %s", st, ticker, contracts.ErrProviderUnavailable, apiErr.Code, apiErr.Description)
	}

	table, err := parseTimeseries(resp.Timeseries.Result)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s %s: %w: %w", st, ticker, contracts.ErrProviderUnavailable, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"statement": string(st),
		"lines":     len(table),
	}).Debug("Statement fetched")

	return table, nil
}

func (c *Client) statementURL(ticker string, keys []string) string {
	types := make([]string, len(keys))
	for i, k := range keys {
		types[i] = "quarterly" + k
	}

	now := c.now()
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("type", strings.Join(types, ","))
	params.Set("merge", "false")
	params.Set("padTimeSeries", "false")
	params.Set("period1", strconv.FormatInt(now.AddDate(-c.lookbackYears, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))

	return c.baseURL + timeseriesPath + url.PathEscape(ticker) + "?" + params.Encode()
}

// Response types

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"timeseries"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type seriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

type dataPoint struct {
	AsOfDate      string `json:"asOfDate"`
	PeriodType    string `json:"periodType"`
	ReportedValue *struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// parseTimeseries turns each result entry into one labelled row.
// Null points keep their date with a nil value.
func parseTimeseries(results []map[string]json.RawMessage) (contracts.StatementTable, error) {
	table := make(contracts.StatementTable, len(results))

	for _, result := range results {
		rawMeta, ok := result["meta"]
		if !ok {
			continue
		}
		var meta seriesMeta
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, fmt.Errorf("decode series meta: %w", err)
		}
		if len(meta.Type) == 0 {
			continue
		}

		key := meta.Type[0]
		rawPoints, ok := result[key]
		if !ok {
			// 요청했지만 데이터가 없는 항목
			continue
		}

		var points []*dataPoint
		if err := json.Unmarshal(rawPoints, &points); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}

		row := make(contracts.RawSeries, len(points))
		for _, p := range points {
			if p == nil || p.AsOfDate == "" {
				continue
			}
			if p.ReportedValue == nil || p.ReportedValue.Raw == nil {
				row[p.AsOfDate] = nil
				continue
			}
			row[p.AsOfDate] = *p.ReportedValue.Raw
		}

		if len(row) > 0 {
			table[Label(key)] = row
		}
	}

	return table, nil
}

// Label renders a timeseries key as a statement line label:
// quarterlyTotalRevenue → Total Revenue, quarterlyNormalizedEBITDA → Normalized EBITDA
func Label(key string) string {
	key = strings.TrimPrefix(key, "quarterly")

	runes := []rune(key)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
