package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string
	noCache  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockscope",
	Short: "Quarterly fundamentals normalization engine",
	Long: `stockscope

분기 재무제표를 TTM / YoY 지표로 정규화합니다.
결과는 JSON으로 stdout에 출력되고 로그는 stderr로 나갑니다.

Usage:
  go run ./cmd/stockscope [command]

Examples:
  go run ./cmd/stockscope api
  go run ./cmd/stockscope ttm AAPL
  go run ./cmd/stockscope compare AAPL MSFT NVDA
  go run ./cmd/stockscope screen --min-revenue-growth 0.1 --limit 20`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
}
