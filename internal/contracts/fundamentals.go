package contracts

import "time"

// TTM result field names
const (
	FieldRevenueTTM         = "revenue_ttm"
	FieldOperatingIncomeTTM = "operating_income_ttm"
	FieldOperatingMarginTTM = "operating_margin_ttm"
	FieldFCFTTM             = "fcf_ttm"
	FieldFCFMarginTTM       = "fcf_margin_ttm"
	FieldEBITDATTM          = "ebitda_ttm"
	FieldRevenueGrowthYoY   = "revenue_growth_yoy"
	FieldFCFGrowthYoY       = "fcf_growth_yoy"
	FieldEBITDAGrowthYoY    = "ebitda_growth_yoy"
	FieldMarginGrowthYoYPP  = "margin_growth_yoy_pp"
	FieldTotalDebt          = "total_debt"
	FieldCashAndEquivalents = "cash_and_equivalents"
	FieldNetDebt            = "net_debt"
	FieldDebtToCash         = "debt_to_cash"
	FieldTicker             = "ticker"
	FieldInsufficientData   = "insufficient_data"
)

// TTMNumericFields lists every optional numeric TTM field in wire order
var TTMNumericFields = []string{
	FieldRevenueTTM,
	FieldOperatingIncomeTTM,
	FieldOperatingMarginTTM,
	FieldFCFTTM,
	FieldFCFMarginTTM,
	FieldEBITDATTM,
	FieldRevenueGrowthYoY,
	FieldFCFGrowthYoY,
	FieldEBITDAGrowthYoY,
	FieldMarginGrowthYoYPP,
	FieldTotalDebt,
	FieldCashAndEquivalents,
	FieldNetDebt,
	FieldDebtToCash,
}

// TTMResult holds trailing-twelve-month metrics for one ticker.
// A nil field was not computable; it is never emitted.
type TTMResult struct {
	Ticker           string `json:"ticker"`
	InsufficientData bool   `json:"insufficient_data"`

	RevenueTTM         *float64 `json:"revenue_ttm,omitempty"`
	OperatingIncomeTTM *float64 `json:"operating_income_ttm,omitempty"`
	OperatingMarginTTM *float64 `json:"operating_margin_ttm,omitempty"` // ratio
	FCFTTM             *float64 `json:"fcf_ttm,omitempty"`
	FCFMarginTTM       *float64 `json:"fcf_margin_ttm,omitempty"` // ratio
	EBITDATTM          *float64 `json:"ebitda_ttm,omitempty"`

	// Growth: only with >= 8 quarters
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy,omitempty"`
	FCFGrowthYoY      *float64 `json:"fcf_growth_yoy,omitempty"`
	EBITDAGrowthYoY   *float64 `json:"ebitda_growth_yoy,omitempty"`
	MarginGrowthYoYPP *float64 `json:"margin_growth_yoy_pp,omitempty"` // 퍼센트포인트

	// Leverage: latest balance sheet observation, not summed
	TotalDebt          *float64 `json:"total_debt,omitempty"`
	CashAndEquivalents *float64 `json:"cash_and_equivalents,omitempty"`
	NetDebt            *float64 `json:"net_debt,omitempty"`
	DebtToCash         *float64 `json:"debt_to_cash,omitempty"`
}

// Numeric returns the value of a numeric field by its wire name
func (r TTMResult) Numeric(field string) (float64, bool) {
	var p *float64
	switch field {
	case FieldRevenueTTM:
		p = r.RevenueTTM
	case FieldOperatingIncomeTTM:
		p = r.OperatingIncomeTTM
	case FieldOperatingMarginTTM:
		p = r.OperatingMarginTTM
	case FieldFCFTTM:
		p = r.FCFTTM
	case FieldFCFMarginTTM:
		p = r.FCFMarginTTM
	case FieldEBITDATTM:
		p = r.EBITDATTM
	case FieldRevenueGrowthYoY:
		p = r.RevenueGrowthYoY
	case FieldFCFGrowthYoY:
		p = r.FCFGrowthYoY
	case FieldEBITDAGrowthYoY:
		p = r.EBITDAGrowthYoY
	case FieldMarginGrowthYoYPP:
		p = r.MarginGrowthYoYPP
	case FieldTotalDebt:
		p = r.TotalDebt
	case FieldCashAndEquivalents:
		p = r.CashAndEquivalents
	case FieldNetDebt:
		p = r.NetDebt
	case FieldDebtToCash:
		p = r.DebtToCash
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// IsNumericField reports whether name is a numeric TTM field
func IsNumericField(name string) bool {
	for _, f := range TTMNumericFields {
		if f == name {
			return true
		}
	}
	return false
}

// Record flattens the result into a field map. Absent fields map to nil so
// the compactor decides what crosses the boundary.
func (r TTMResult) Record() map[string]any {
	record := map[string]any{
		FieldTicker:           r.Ticker,
		FieldInsufficientData: r.InsufficientData,
	}
	for _, field := range TTMNumericFields {
		if v, ok := r.Numeric(field); ok {
			record[field] = v
		} else {
			record[field] = nil
		}
	}
	return record
}

// Series result names
const (
	SeriesRevenue         = "revenue"
	SeriesOperatingIncome = "operating_income"
	SeriesOperatingMargin = "operating_margin"
	SeriesFCF             = "fcf"
	SeriesFCFMargin       = "fcf_margin"
	SeriesEBITDA          = "ebitda"
)

// SeriesResult holds the quarterly series used for charts
type SeriesResult struct {
	Revenue         MetricSeries `json:"revenue,omitempty"`
	OperatingIncome MetricSeries `json:"operating_income,omitempty"`
	OperatingMargin MetricSeries `json:"operating_margin,omitempty"`
	FCF             MetricSeries `json:"fcf,omitempty"`
	FCFMargin       MetricSeries `json:"fcf_margin,omitempty"`
	EBITDA          MetricSeries `json:"ebitda,omitempty"`
}

// Record flattens the series result into a name → series map
func (s SeriesResult) Record() map[string]any {
	return map[string]any{
		SeriesRevenue:         s.Revenue,
		SeriesOperatingIncome: s.OperatingIncome,
		SeriesOperatingMargin: s.OperatingMargin,
		SeriesFCF:             s.FCF,
		SeriesFCFMargin:       s.FCFMargin,
		SeriesEBITDA:          s.EBITDA,
	}
}

// FundamentalsMetadata describes how a fundamentals bundle was built
type FundamentalsMetadata struct {
	DataType         string    `json:"data_type"`
	PeriodsAvailable int       `json:"periods_available"`
	LastUpdated      time.Time `json:"last_updated"`
	InsufficientData bool      `json:"insufficient_data"`
}

// FundamentalsResponse is the combined TTM + series payload for one ticker.
// TTM and Series are already compacted.
type FundamentalsResponse struct {
	Ticker   string               `json:"ticker"`
	TTM      map[string]any       `json:"ttm"`
	Series   map[string]any       `json:"series"`
	Metadata FundamentalsMetadata `json:"metadata"`
}
