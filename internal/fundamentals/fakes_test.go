package fundamentals

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/wonny/stockscope/internal/contracts"
)

// quarterEnds are eight ascending fiscal quarter ends
var quarterEnds = []string{
	"2022-03-31", "2022-06-30", "2022-09-30", "2022-12-31",
	"2023-03-31", "2023-06-30", "2023-09-30", "2023-12-31",
}

// row builds a raw series over the last len(values) quarter ends
func row(values ...any) contracts.RawSeries {
	raw := make(contracts.RawSeries, len(values))
	offset := len(quarterEnds) - len(values)
	for i, v := range values {
		raw[quarterEnds[offset+i]] = v
	}
	return raw
}

type fakeProvider struct {
	income   contracts.StatementTable
	cashflow contracts.StatementTable
	balance  contracts.StatementTable

	incomeErr   error
	cashflowErr error
	balanceErr  error
	panicOn     contracts.Statement

	calls atomic.Int32
}

func (p *fakeProvider) serve(st contracts.Statement, table contracts.StatementTable, err error) (contracts.StatementTable, error) {
	p.calls.Add(1)
	if p.panicOn == st {
		panic(fmt.Sprintf("%s decoder exploded", st))
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (p *fakeProvider) GetQuarterlyIncomeStatement(_ context.Context, _ string) (contracts.StatementTable, error) {
	return p.serve(contracts.StatementIncome, p.income, p.incomeErr)
}

func (p *fakeProvider) GetQuarterlyCashflow(_ context.Context, _ string) (contracts.StatementTable, error) {
	return p.serve(contracts.StatementCashflow, p.cashflow, p.cashflowErr)
}

func (p *fakeProvider) GetQuarterlyBalanceSheet(_ context.Context, _ string) (contracts.StatementTable, error) {
	return p.serve(contracts.StatementBalance, p.balance, p.balanceErr)
}

// healthyProvider serves eight quarters of a well-formed company
func healthyProvider() *fakeProvider {
	return &fakeProvider{
		income: contracts.StatementTable{
			"Total Revenue":    row(100.0, 110.0, 105.0, 120.0, 130.0, 125.0, 140.0, 150.0),
			"Operating Income": row(10.0, 11.0, 10.0, 12.0, 15.0, 14.0, 17.0, 19.0),
			"EBITDA":           row(20.0, 21.0, 20.0, 22.0, 25.0, 24.0, 27.0, 29.0),
		},
		cashflow: contracts.StatementTable{
			"Operating Cash Flow": row(30.0, 30.0, 30.0, 30.0, 40.0, 40.0, 40.0, 40.0),
			"Capital Expenditure": row(-10.0, -10.0, -10.0, -10.0, -10.0, -10.0, -10.0, -10.0),
		},
		balance: contracts.StatementTable{
			"Total Debt":                row(500.0, 480.0),
			"Cash And Cash Equivalents": row(200.0, 250.0),
		},
	}
}
