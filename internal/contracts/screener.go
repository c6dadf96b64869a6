package contracts

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// CompareRequest lists the tickers to compare side by side
type CompareRequest struct {
	Tickers []string `json:"tickers" validate:"required,min=1,dive,required"`
}

// ScreenerRequest carries the screener filter contract.
// A nil bound is not applied; a ticker missing the filtered field fails it.
type ScreenerRequest struct {
	Universe []string `json:"universe,omitempty" validate:"omitempty,dive,required"`

	MinRevenueGrowthYoY  *float64 `json:"min_revenue_growth_yoy,omitempty"`
	MinFCFGrowthYoY      *float64 `json:"min_fcf_growth_yoy,omitempty"`
	MinMarginGrowthYoYPP *float64 `json:"min_margin_growth_yoy_pp,omitempty"`
	MinEBITDAGrowthYoY   *float64 `json:"min_ebitda_growth_yoy,omitempty"`
	MaxDebtToCash        *float64 `json:"max_debt_to_cash,omitempty"`

	Limit   int    `json:"limit" validate:"gte=0,lte=500"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// ScreenerResponse is the screener output. Results are compacted TTM records.
type ScreenerResponse struct {
	Results        []map[string]any `json:"results"`
	TotalScreened  int              `json:"total_screened"`
	FiltersApplied map[string]any   `json:"filters_applied"`
}
