package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/internal/contracts"
)

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		metric Metric
		want   string
		found  bool
	}{
		{"primary label", []string{"Total Revenue", "Revenue"}, MetricRevenue, "Total Revenue", true},
		{"alias priority", []string{"Revenue", "Operating Revenue"}, MetricRevenue, "Operating Revenue", true},
		{"compact alias", []string{"TotalRevenue"}, MetricRevenue, "TotalRevenue", true},
		{"case-insensitive", []string{"total revenue "}, MetricRevenue, "total revenue ", true},
		{"exact beats case-insensitive", []string{"TOTAL REVENUE", "Revenue"}, MetricRevenue, "Revenue", true},
		{"case-insensitive keeps alias order", []string{"revenue", "OPERATING REVENUE"}, MetricRevenue, "OPERATING REVENUE", true},
		{"case tie breaks lexically", []string{"total revenue", "Total revenue"}, MetricRevenue, "Total revenue", true},
		{"capex plural", []string{"Capital Expenditures"}, MetricCapitalExpenditures, "Capital Expenditures", true},
		{"no match", []string{"Gross Profit"}, MetricRevenue, "", false},
		{"empty table", nil, MetricRevenue, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := contracts.StatementTable{}
			for _, l := range tt.labels {
				table[l] = row(1.0)
			}

			got, ok := DefaultAliases.ResolveLabel(table, tt.metric)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NoMatchIsEmpty(t *testing.T) {
	got := Resolve(contracts.StatementTable{"Gross Profit": row(1.0)}, MetricEBITDA)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Extract(got))
}

func TestResolveExtract_Deterministic(t *testing.T) {
	table := contracts.StatementTable{
		"revenue":       row(1.0, 2.0, 3.0, 4.0),
		"Total Revenue": row(10.0, 20.0, 30.0, 40.0),
		"TOTAL REVENUE": row(5.0, 6.0, 7.0, 8.0),
	}

	first := Extract(Resolve(table, MetricRevenue))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Extract(Resolve(table, MetricRevenue)))
	}
	assert.Equal(t, 100.0, first.Sum())
}

func TestAliasTable_Custom(t *testing.T) {
	custom := AliasTable{MetricRevenue: {"Sales"}}
	table := contracts.StatementTable{"Total Revenue": row(1.0), "sales": row(2.0)}

	label, ok := custom.ResolveLabel(table, MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, "sales", label)
	assert.Equal(t, []string{"Sales"}, custom.Labels(MetricRevenue))
}

func TestDefaultAliases_CoverCanonicalMetrics(t *testing.T) {
	for _, m := range CanonicalMetrics {
		assert.NotEmpty(t, DefaultAliases.Labels(m), string(m))
	}
}
