package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/stockscope/internal/universe"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "스크리너 유니버스 조회",
	Long: `스크리너 기본 유니버스를 출력합니다.
DATABASE_URL이 설정되어 있으면 DB 테이블을, 아니면 내장 S&P 500 목록을 사용합니다.

Example:
  go run ./cmd/stockscope universe
  go run ./cmd/stockscope universe --sync`,
	RunE: runUniverse,
}

var (
	universeSync bool
)

func init() {
	rootCmd.AddCommand(universeCmd)

	// Flags
	universeCmd.Flags().BoolVar(&universeSync, "sync", false, "내장 목록으로 DB 유니버스 테이블 갱신")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	if universeSync {
		if a.repo == nil {
			return fmt.Errorf("--sync requires DATABASE_URL")
		}
		n, err := a.repo.Replace(ctx, universe.Embedded())
		if err != nil {
			return err
		}
		a.log.WithField("tickers", n).Info("Universe synced")
	}

	tickers, err := a.universe.Tickers(ctx)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"count":   len(tickers),
		"tickers": tickers,
	})
}
