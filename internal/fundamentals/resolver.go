package fundamentals

import (
	"sort"
	"strings"

	"github.com/wonny/stockscope/internal/contracts"
)

// Resolve picks the raw row for a metric using the default alias table
func Resolve(table contracts.StatementTable, metric Metric) contracts.RawSeries {
	return DefaultAliases.Resolve(table, metric)
}

// Resolve picks the raw row for a metric. Matching order:
//  1. exact primary label
//  2. exact alias, in priority order
//  3. case-insensitive scan of all labels against the same order
//
// No match yields an empty series, not an error.
func (t AliasTable) Resolve(table contracts.StatementTable, metric Metric) contracts.RawSeries {
	label, ok := t.ResolveLabel(table, metric)
	if !ok {
		return contracts.RawSeries{}
	}
	return table[label]
}

// ResolveLabel returns the table label chosen for a metric
func (t AliasTable) ResolveLabel(table contracts.StatementTable, metric Metric) (string, bool) {
	if len(table) == 0 {
		return "", false
	}

	candidates := t[metric]

	for _, candidate := range candidates {
		if _, ok := table[candidate]; ok {
			return candidate, true
		}
	}

	// Sorted so that two labels differing only in case always resolve the same way
	labels := table.Labels()
	sort.Strings(labels)

	for _, candidate := range candidates {
		want := normalizeLabel(candidate)
		for _, label := range labels {
			if normalizeLabel(label) == want {
				return label, true
			}
		}
	}

	return "", false
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
