package fundamentals

// Metric is a provider-independent metric name
type Metric string

// Canonical metrics
const (
	MetricRevenue             Metric = "revenue"
	MetricOperatingIncome     Metric = "operating_income"
	MetricEBITDA              Metric = "ebitda"
	MetricOperatingCashFlow   Metric = "operating_cash_flow"
	MetricCapitalExpenditures Metric = "capital_expenditures"
	MetricFreeCashFlow        Metric = "free_cash_flow"
	MetricTotalDebt           Metric = "total_debt"
	MetricCashAndEquivalents  Metric = "cash_and_equivalents"
)

// Supporting balance sheet lines used by the debt and cash fallbacks.
// They never appear in results on their own.
const (
	MetricShortTermDebt           Metric = "short_term_debt"
	MetricLongTermDebt            Metric = "long_term_debt"
	MetricShortTermInvestments    Metric = "short_term_investments"
	MetricCashAndShortInvestments Metric = "cash_and_short_term_investments"
)

// CanonicalMetrics lists the metrics produced by the fetch orchestrator
var CanonicalMetrics = []Metric{
	MetricRevenue,
	MetricOperatingIncome,
	MetricEBITDA,
	MetricOperatingCashFlow,
	MetricCapitalExpenditures,
	MetricFreeCashFlow,
	MetricTotalDebt,
	MetricCashAndEquivalents,
}

// AliasTable maps a metric to its provider labels in priority order.
// Index 0 is the primary label; the first label found wins.
type AliasTable map[Metric][]string

// AliasTableVersion changes whenever DefaultAliases is edited so cached
// results built from an older table can be told apart.
const AliasTableVersion = "2024.3"

// DefaultAliases covers the labels Yahoo Finance has used across statement
// vintages. Spaced and CamelCase forms both occur.
var DefaultAliases = AliasTable{
	MetricRevenue: {
		"Total Revenue",
		"TotalRevenue",
		"Operating Revenue",
		"OperatingRevenue",
		"Revenue",
	},
	MetricOperatingIncome: {
		"Operating Income",
		"OperatingIncome",
		"Total Operating Income As Reported",
	},
	MetricEBITDA: {
		"EBITDA",
		"Normalized EBITDA",
		"NormalizedEBITDA",
	},
	MetricOperatingCashFlow: {
		"Operating Cash Flow",
		"OperatingCashFlow",
		"Total Cash From Operating Activities",
		"Cash Flow From Continuing Operating Activities",
	},
	MetricCapitalExpenditures: {
		"Capital Expenditure",
		"Capital Expenditures",
		"CapitalExpenditure",
	},
	MetricFreeCashFlow: {
		"Free Cash Flow",
		"FreeCashFlow",
	},
	MetricTotalDebt: {
		"Total Debt",
		"TotalDebt",
	},
	MetricCashAndEquivalents: {
		"Cash And Cash Equivalents",
		"CashAndCashEquivalents",
		"Cash",
		"Cash Financial",
	},
	MetricShortTermDebt: {
		"Short Long Term Debt",
		"Current Debt",
		"Current Debt And Capital Lease Obligation",
		"Short Term Debt",
	},
	MetricLongTermDebt: {
		"Long Term Debt",
		"LongTermDebt",
		"Long Term Debt And Capital Lease Obligation",
	},
	MetricShortTermInvestments: {
		"Short Term Investments",
		"Other Short Term Investments",
		"OtherShortTermInvestments",
	},
	MetricCashAndShortInvestments: {
		"Cash Cash Equivalents And Short Term Investments",
		"CashCashEquivalentsAndShortTermInvestments",
	},
}

// Labels returns the ordered label list for a metric
func (t AliasTable) Labels(metric Metric) []string {
	return t[metric]
}
