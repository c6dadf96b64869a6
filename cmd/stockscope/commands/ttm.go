package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/stockscope/internal/fundamentals"
)

// ttmCmd represents the ttm command
var ttmCmd = &cobra.Command{
	Use:   "ttm <ticker>",
	Short: "TTM 지표 조회",
	Long: `한 종목의 TTM 매출/영업이익/FCF/EBITDA, YoY 성장률, 레버리지를 계산합니다.
계산할 수 없는 필드는 출력에서 빠집니다.

Example:
  go run ./cmd/stockscope ttm AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runTTM,
}

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <ticker>",
	Short: "분기 시계열 조회",
	Long: `차트용 분기 시계열(매출, 영업이익, 마진, FCF, EBITDA)을 출력합니다.

Example:
  go run ./cmd/stockscope series AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runSeries,
}

// fundamentalsCmd represents the fundamentals command
var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals <ticker>",
	Short: "TTM + 시계열 + 메타데이터 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runFundamentals,
}

func init() {
	rootCmd.AddCommand(ttmCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(fundamentalsCmd)
}

func runTTM(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.service.TTM(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(fundamentals.Compact(result.Record()))
}

func runSeries(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.service.Series(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(fundamentals.Compact(result.Record()))
}

func runFundamentals(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.service.Fundamentals(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(resp)
}
