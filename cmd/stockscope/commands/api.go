package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockscope/internal/api"
	"github.com/wonny/stockscope/internal/api/handlers"
	"github.com/wonny/stockscope/internal/scheduler"
	"github.com/wonny/stockscope/internal/scheduler/jobs"
	"github.com/wonny/stockscope/internal/universe"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

WARM_ENABLED=true이면 캐시 워밍 스케줄러도 함께 시작합니다.

Endpoints:
  GET    /health                          - Health check
  GET    /api/fundamentals/{ticker}       - TTM + series + metadata
  GET    /api/fundamentals/{ticker}/ttm   - TTM 지표
  GET    /api/fundamentals/{ticker}/series - 분기 시계열
  POST   /api/fundamentals/compare        - 종목 비교
  POST   /api/fundamentals/screener       - 스크리너
  GET    /api/cache/stats                 - 캐시 통계
  DELETE /api/cache[?pattern=]            - 캐시 삭제

Example:
  go run ./cmd/stockscope api
  go run ./cmd/stockscope api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// Handlers & router
	fundamentalsHandler := handlers.NewFundamentalsHandler(a.service, a.comparer, a.screener, log.WithComponent("handlers"))
	cacheHandler := handlers.NewCacheHandler(a.store, log.WithComponent("handlers"))
	router := api.NewRouter(fundamentalsHandler, cacheHandler, log)
	server := api.New(a.cfg, log, router)

	// Scheduler
	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Fprintf(os.Stderr, "\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newScheduler registers the background jobs; nil when none are configured
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	if !a.cfg.Warm.Enabled && a.repo == nil {
		return nil, nil
	}

	sched := scheduler.New(a.log)

	if a.cfg.Warm.Enabled {
		job := jobs.NewWarmJob(a.service, a.cfg.Warm.Tickers, a.cfg.Warm.Schedule, a.cfg.Batch.ScreenDelay, a.log.WithComponent("warm"))
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("add warm job: %w", err)
		}
	}

	if a.repo != nil {
		job := jobs.NewUniverseSyncJob(a.repo, universe.Embedded, a.log.WithComponent("universe"))
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("add universe job: %w", err)
		}
	}

	return sched, nil
}
