package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wonny/stockscope/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "펀더멘털 스크리너",
	Long: `유니버스 전체의 TTM 지표를 계산해 필터를 통과한 종목을 정렬해 출력합니다.
--universe를 생략하면 설정된 유니버스(DB 또는 내장 S&P 500 목록)를 사용합니다.
데이터가 부족한 종목은 항상 제외됩니다.

Example:
  go run ./cmd/stockscope screen --min-revenue-growth 0.15 --max-debt-to-cash 2
  go run ./cmd/stockscope screen --universe AAPL,MSFT,NVDA --sort-by fcf_margin_ttm --sort-dir asc`,
	RunE: runScreen,
}

var (
	screenUniverse         []string
	screenMinRevenueGrowth float64
	screenMinFCFGrowth     float64
	screenMinMarginGrowth  float64
	screenMinEBITDAGrowth  float64
	screenMaxDebtToCash    float64
	screenLimit            int
	screenSortBy           string
	screenSortDir          string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	// Flags
	f := screenCmd.Flags()
	f.StringSliceVar(&screenUniverse, "universe", nil, "쉼표로 구분한 종목 목록")
	f.Float64Var(&screenMinRevenueGrowth, "min-revenue-growth", 0, "최소 매출 YoY 성장률 (비율)")
	f.Float64Var(&screenMinFCFGrowth, "min-fcf-growth", 0, "최소 FCF YoY 성장률 (비율)")
	f.Float64Var(&screenMinMarginGrowth, "min-margin-growth-pp", 0, "최소 영업이익률 변화 (퍼센트포인트)")
	f.Float64Var(&screenMinEBITDAGrowth, "min-ebitda-growth", 0, "최소 EBITDA YoY 성장률 (비율)")
	f.Float64Var(&screenMaxDebtToCash, "max-debt-to-cash", 0, "최대 부채/현금 비율")
	f.IntVar(&screenLimit, "limit", 100, "최대 결과 수 (1-500)")
	f.StringVar(&screenSortBy, "sort-by", "revenue_growth_yoy", "정렬 필드 (TTM 숫자 필드)")
	f.StringVar(&screenSortDir, "sort-dir", "desc", "정렬 방향 (asc|desc)")
}

// buildScreenerRequest maps the flags onto a request. Unset bound flags stay nil.
func buildScreenerRequest(flags *pflag.FlagSet) contracts.ScreenerRequest {
	req := contracts.ScreenerRequest{
		Universe: screenUniverse,
		Limit:    screenLimit,
		SortBy:   screenSortBy,
		SortDir:  screenSortDir,
	}

	bound := func(name string, v float64) *float64 {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	req.MinRevenueGrowthYoY = bound("min-revenue-growth", screenMinRevenueGrowth)
	req.MinFCFGrowthYoY = bound("min-fcf-growth", screenMinFCFGrowth)
	req.MinMarginGrowthYoYPP = bound("min-margin-growth-pp", screenMinMarginGrowth)
	req.MinEBITDAGrowthYoY = bound("min-ebitda-growth", screenMinEBITDAGrowth)
	req.MaxDebtToCash = bound("max-debt-to-cash", screenMaxDebtToCash)

	return req
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.screener.Screen(cmd.Context(), buildScreenerRequest(cmd.Flags()))
	if err != nil {
		return err
	}
	return printJSON(resp)
}
