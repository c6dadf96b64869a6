package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/internal/fundamentals"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <ticker>...",
	Short: "여러 종목 TTM 비교",
	Long: `최대 COMPARE_MAX(기본 20)개 종목의 TTM 지표를 revenue_ttm 내림차순으로 출력합니다.
실패한 종목은 건너뜁니다.

Example:
  go run ./cmd/stockscope compare AAPL MSFT GOOGL`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.comparer.Compare(cmd.Context(), contracts.CompareRequest{Tickers: args})
	if err != nil {
		return err
	}

	records := make([]map[string]any, len(results))
	for i, r := range results {
		records[i] = fundamentals.Compact(r.Record())
	}
	return printJSON(records)
}
