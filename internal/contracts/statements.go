package contracts

import "context"

// Statement identifies one of the three quarterly statements served by the provider
type Statement string

const (
	StatementIncome   Statement = "income_statement"
	StatementCashflow Statement = "cash_flow"
	StatementBalance  Statement = "balance_sheet"
)

// Statements lists the statements in fetch order
var Statements = []Statement{StatementIncome, StatementCashflow, StatementBalance}

// RawSeries maps a provider period key to its raw value.
// Values are whatever the provider decoded: float64, json.Number, string or nil.
type RawSeries map[string]any

// StatementTable maps a provider line-item label to its raw series
type StatementTable map[string]RawSeries

// Labels returns the line-item labels present in the table
func (t StatementTable) Labels() []string {
	labels := make([]string, 0, len(t))
	for label := range t {
		labels = append(labels, label)
	}
	return labels
}

// StatementProvider is the external data provider collaborator.
// Each call is one network round-trip and must honor ctx cancellation.
type StatementProvider interface {
	GetQuarterlyIncomeStatement(ctx context.Context, ticker string) (StatementTable, error)
	GetQuarterlyCashflow(ctx context.Context, ticker string) (StatementTable, error)
	GetQuarterlyBalanceSheet(ctx context.Context, ticker string) (StatementTable, error)
}
