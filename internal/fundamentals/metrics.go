package fundamentals

import (
	"math"

	"github.com/wonny/stockscope/internal/contracts"
)

// Minimum data requirements
const (
	MinQuartersTTM      = 4
	MinQuartersYoY      = 8
	MinQuartersReliable = 3

	// MaxPlausibleGrowth bounds |YoY growth| (10.0 = 1000%). Larger values are
	// treated as data glitches and dropped.
	MaxPlausibleGrowth = 10.0
)

// TTM sums the four most recent observations.
// The window is positional, so a skipped provider quarter is not padded.
func TTM(s contracts.MetricSeries) (float64, bool) {
	if s.Len() < MinQuartersTTM {
		return 0, false
	}
	return s.Tail(MinQuartersTTM).Sum(), true
}

// YoYGrowth compares the latest four quarters to the four before them
func YoYGrowth(s contracts.MetricSeries) (float64, bool) {
	if s.Len() < MinQuartersYoY {
		return 0, false
	}

	curr := s.Tail(4).Sum()
	prev := s.Window(8, 4).Sum()
	if prev == 0 {
		return 0, false
	}

	growth := (curr - prev) / prev
	if math.Abs(growth) > MaxPlausibleGrowth || math.IsNaN(growth) {
		return 0, false
	}
	return growth, true
}

// Margin divides two optional TTM figures
func Margin(numerator, denominator *float64) (float64, bool) {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return 0, false
	}
	return finite(*numerator / *denominator)
}

// MarginGrowthPP returns the change in operating margin between the latest
// four quarters and the prior four, in percentage points
func MarginGrowthPP(opIncome, revenue contracts.MetricSeries) (float64, bool) {
	if opIncome.Len() < MinQuartersYoY || revenue.Len() < MinQuartersYoY {
		return 0, false
	}

	currRev := revenue.Tail(4).Sum()
	prevRev := revenue.Window(8, 4).Sum()
	if currRev == 0 || prevRev == 0 {
		return 0, false
	}

	curr := opIncome.Tail(4).Sum() / currRev
	prev := opIncome.Window(8, 4).Sum() / prevRev
	return finite((curr - prev) * 100.0)
}

// Leverage holds balance sheet figures taken from the latest observation
type Leverage struct {
	TotalDebt          *float64
	CashAndEquivalents *float64
	NetDebt            *float64
	DebtToCash         *float64
}

// ComputeLeverage derives net debt and debt-to-cash from the latest single
// observation of each series
func ComputeLeverage(debt, cash contracts.MetricSeries) Leverage {
	var lev Leverage

	if obs, ok := debt.Latest(); ok {
		lev.TotalDebt = optional(obs.Value, true)
	}
	if obs, ok := cash.Latest(); ok {
		lev.CashAndEquivalents = optional(obs.Value, true)
	}

	if lev.TotalDebt != nil && lev.CashAndEquivalents != nil {
		lev.NetDebt = optional(*lev.TotalDebt-*lev.CashAndEquivalents, true)
		lev.DebtToCash = optional(Margin(lev.TotalDebt, lev.CashAndEquivalents))
	}

	return lev
}

// IsInsufficient flags a result as unreliable when revenue or operating
// income has fewer than three quarters. It does not look at derived fields.
func IsInsufficient(revenue, opIncome contracts.MetricSeries) bool {
	return revenue.Len() < MinQuartersReliable || opIncome.Len() < MinQuartersReliable
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// optional converts a (value, ok) pair into a result field
func optional(v float64, ok bool) *float64 {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
