package fundamentals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/pkg/logger"
)

// MetricResult keeps "missing" (empty series, nil Err) apart from "errored"
// (non-nil Err). Both compact to an absent field.
type MetricResult struct {
	Series contracts.MetricSeries
	Err    error
}

// Quarterlies holds the canonical series fetched for one ticker
type Quarterlies struct {
	Ticker  string
	Metrics map[Metric]MetricResult
	Errors  map[contracts.Statement]error
}

func newQuarterlies(ticker string) Quarterlies {
	return Quarterlies{
		Ticker:  ticker,
		Metrics: make(map[Metric]MetricResult, len(CanonicalMetrics)),
		Errors:  make(map[contracts.Statement]error, len(contracts.Statements)),
	}
}

// Series returns the series for a metric, empty when missing or errored
func (q Quarterlies) Series(m Metric) contracts.MetricSeries {
	if r, ok := q.Metrics[m]; ok && r.Series != nil {
		return r.Series
	}
	return contracts.MetricSeries{}
}

// Err returns the fetch error behind a metric, if any
func (q Quarterlies) Err(m Metric) error {
	return q.Metrics[m].Err
}

// Degraded reports whether any statement call failed
func (q Quarterlies) Degraded() bool {
	return len(q.Errors) > 0
}

// Transient reports whether a statement failed for a reason other than the
// provider refusing it. A retry may then return more data.
func (q Quarterlies) Transient() bool {
	for _, err := range q.Errors {
		if !errors.Is(err, contracts.ErrTickerRejected) {
			return true
		}
	}
	return false
}

func (q Quarterlies) set(m Metric, s contracts.MetricSeries, err error) {
	if s == nil {
		s = contracts.MetricSeries{}
	}
	q.Metrics[m] = MetricResult{Series: s, Err: err}
}

type statementCall func(ctx context.Context, ticker string) (contracts.StatementTable, error)

// Fetcher calls the three statement collaborators once per ticker and
// assembles the canonical series
type Fetcher struct {
	provider contracts.StatementProvider
	aliases  AliasTable
	timeout  time.Duration
	logger   *logger.Logger
}

// NewFetcher creates a fetcher. timeout bounds each statement call; zero
// leaves only the caller's deadline.
func NewFetcher(provider contracts.StatementProvider, timeout time.Duration, log *logger.Logger) *Fetcher {
	return &Fetcher{
		provider: provider,
		aliases:  DefaultAliases,
		timeout:  timeout,
		logger:   log,
	}
}

// WithAliases replaces the alias table
func (f *Fetcher) WithAliases(table AliasTable) *Fetcher {
	f.aliases = table
	return f
}

// FetchQuarterlies fetches the income statement, cash flow and balance sheet
// and builds revenue, operating income, EBITDA, OCF, CapEx, FCF, total debt
// and cash series. A failed statement empties only its own metrics. A panic
// in a collaborator empties every metric. The only error returned is
// ErrTickerRejected, when no statement succeeded and the provider refused the
// ticker.
func (f *Fetcher) FetchQuarterlies(ctx context.Context, ticker string) (q Quarterlies, err error) {
	q = newQuarterlies(ticker)

	defer func() {
		if r := recover(); r != nil {
			f.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"panic":  fmt.Sprint(r),
			}).Error("Recovered panic while fetching quarterlies")

			q = newQuarterlies(ticker)
			cause := fmt.Errorf("panic: %v", r)
			for _, st := range contracts.Statements {
				q.Errors[st] = &contracts.FetchError{Ticker: ticker, Statement: st, Err: cause}
			}
			for _, m := range CanonicalMetrics {
				q.set(m, nil, q.Errors[contracts.StatementIncome])
			}
			err = nil
		}
	}()

	income, incomeErr := f.fetch(ctx, ticker, contracts.StatementIncome, f.provider.GetQuarterlyIncomeStatement)
	cashflow, cashflowErr := f.fetch(ctx, ticker, contracts.StatementCashflow, f.provider.GetQuarterlyCashflow)
	balance, balanceErr := f.fetch(ctx, ticker, contracts.StatementBalance, f.provider.GetQuarterlyBalanceSheet)

	for st, e := range map[contracts.Statement]error{
		contracts.StatementIncome:   incomeErr,
		contracts.StatementCashflow: cashflowErr,
		contracts.StatementBalance:  balanceErr,
	} {
		if e != nil {
			q.Errors[st] = e
		}
	}

	if isRejected(incomeErr, cashflowErr, balanceErr) {
		return q, fmt.Errorf("%s: %w", ticker, contracts.ErrTickerRejected)
	}

	// Income statement
	q.set(MetricRevenue, f.extract(income, MetricRevenue), incomeErr)
	q.set(MetricOperatingIncome, f.extract(income, MetricOperatingIncome), incomeErr)
	q.set(MetricEBITDA, f.extract(income, MetricEBITDA), incomeErr)

	// Cash flow
	ocf := f.extract(cashflow, MetricOperatingCashFlow)
	capex := f.extract(cashflow, MetricCapitalExpenditures)
	q.set(MetricOperatingCashFlow, ocf, cashflowErr)
	q.set(MetricCapitalExpenditures, capex, cashflowErr)
	q.set(MetricFreeCashFlow, f.freeCashFlow(ticker, cashflow, ocf, capex), cashflowErr)

	// Balance sheet
	q.set(MetricTotalDebt, f.totalDebt(balance), balanceErr)
	q.set(MetricCashAndEquivalents, f.cash(balance), balanceErr)

	return q, nil
}

func (f *Fetcher) fetch(ctx context.Context, ticker string, st contracts.Statement, call statementCall) (contracts.StatementTable, error) {
	callCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	table, err := call(callCtx, ticker)
	if err != nil {
		f.logger.WithFields(map[string]interface{}{
			"ticker":    ticker,
			"statement": string(st),
			"error":     err.Error(),
		}).Warn("Statement fetch failed")
		return nil, &contracts.FetchError{Ticker: ticker, Statement: st, Err: err}
	}

	return table, nil
}

func (f *Fetcher) extract(table contracts.StatementTable, m Metric) contracts.MetricSeries {
	return Extract(f.aliases.Resolve(table, m))
}

// freeCashFlow prefers OCF − |CapEx|. Without CapEx it degrades to OCF alone;
// without OCF it uses a reported free cash flow line if the provider has one.
func (f *Fetcher) freeCashFlow(ticker string, table contracts.StatementTable, ocf, capex contracts.MetricSeries) contracts.MetricSeries {
	switch {
	case !ocf.IsEmpty() && !capex.IsEmpty():
		return FreeCashFlow(ocf, capex)
	case !ocf.IsEmpty():
		f.logger.WithField("ticker", ticker).Warn("CapEx missing, FCF falls back to operating cash flow")
		return ocf
	default:
		return f.extract(table, MetricFreeCashFlow)
	}
}

// totalDebt prefers a single total debt line, else short + long term debt
func (f *Fetcher) totalDebt(table contracts.StatementTable) contracts.MetricSeries {
	if debt := f.extract(table, MetricTotalDebt); !debt.IsEmpty() {
		return debt
	}

	short := f.extract(table, MetricShortTermDebt)
	long := f.extract(table, MetricLongTermDebt)
	if short.IsEmpty() && long.IsEmpty() {
		return contracts.MetricSeries{}
	}
	return SumUnion(short, long)
}

// cash prefers a combined cash + short-term investments figure, then cash
// plus the short-term investments line, then cash alone
func (f *Fetcher) cash(table contracts.StatementTable) contracts.MetricSeries {
	if combined := f.extract(table, MetricCashAndShortInvestments); !combined.IsEmpty() {
		return combined
	}

	cash := f.extract(table, MetricCashAndEquivalents)
	if cash.IsEmpty() {
		return contracts.MetricSeries{}
	}

	sti := f.extract(table, MetricShortTermInvestments)
	if sti.IsEmpty() {
		return cash
	}
	return AddOnto(cash, sti)
}

// isRejected is true when every call failed and at least one was an outright rejection
func isRejected(errs ...error) bool {
	rejected := false
	for _, err := range errs {
		if err == nil {
			return false
		}
		if errors.Is(err, contracts.ErrTickerRejected) {
			rejected = true
		}
	}
	return rejected
}
