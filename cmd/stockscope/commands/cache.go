package commands

import (
	"github.com/spf13/cobra"
)

// cacheCmd groups cache administration
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "결과 캐시 관리",
	Long: `결과 캐시 통계 조회 및 삭제. CACHE_BACKEND=redis일 때 의미가 있습니다
(메모리 캐시는 프로세스마다 새로 만들어짐).

Example:
  go run ./cmd/stockscope cache stats
  go run ./cmd/stockscope cache clear --pattern 'ttm:*AAPL*'`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "캐시 통계",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return printJSON(a.store.Stats(cmd.Context()))
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "캐시 삭제",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		var removed int
		if cachePattern == "" {
			removed, err = a.store.Clear(ctx)
		} else {
			removed, err = a.store.ClearPattern(ctx, cachePattern)
		}
		if err != nil {
			return err
		}

		a.log.WithFields(map[string]interface{}{
			"pattern": cachePattern,
			"removed": removed,
		}).Info("Cache cleared")
		return printJSON(map[string]interface{}{"cleared": removed})
	},
}

var cachePattern string

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().StringVar(&cachePattern, "pattern", "", "glob 또는 부분 문자열 (비우면 전체 삭제)")
}
