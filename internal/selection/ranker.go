package selection

import (
	"sort"
	"strings"

	"github.com/wonny/stockscope/internal/contracts"
)

// DefaultSortField is used when sort_by is empty or not a TTM numeric field
const DefaultSortField = contracts.FieldRevenueGrowthYoY

// Ranker orders TTM results by one numeric field
// ⭐ SSOT: 결과 정렬 규칙은 여기서만
type Ranker struct {
	Field string
	Desc  bool

	// MissingAsZero ranks an absent field as 0 instead of last
	MissingAsZero bool
}

// NewRanker resolves a sort request into a ranker.
// Unknown fields fall back to DefaultSortField; any dir but "asc" sorts descending.
func NewRanker(sortBy, sortDir string) Ranker {
	field := sortBy
	if !contracts.IsNumericField(field) {
		field = DefaultSortField
	}
	return Ranker{
		Field: field,
		Desc:  !strings.EqualFold(sortDir, contracts.SortAsc),
	}
}

// Dir returns the sort direction as it appears on the wire
func (r Ranker) Dir() string {
	if r.Desc {
		return contracts.SortDesc
	}
	return contracts.SortAsc
}

// Rank sorts results in place. Ties keep input order.
func (r Ranker) Rank(results []contracts.TTMResult) {
	sort.SliceStable(results, func(i, j int) bool {
		vi, oki := r.value(results[i])
		vj, okj := r.value(results[j])

		// 값이 없는 종목은 방향과 무관하게 뒤로
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if r.Desc {
			return vi > vj
		}
		return vi < vj
	})
}

func (r Ranker) value(result contracts.TTMResult) (float64, bool) {
	v, ok := result.Numeric(r.Field)
	if !ok && r.MissingAsZero {
		return 0, true
	}
	return v, ok
}
