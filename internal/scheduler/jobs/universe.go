package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockscope/pkg/logger"
)

// DefaultUniverseSchedule syncs the universe table daily at 05:00
const DefaultUniverseSchedule = "0 0 5 * * *"

// UniverseStore persists the active screener universe
type UniverseStore interface {
	Replace(ctx context.Context, tickers []string) (int, error)
}

// UniverseSyncJob seeds the universe table from the bundled list
// ⭐ SSOT: Universe 테이블 갱신 스케줄은 이 Job에서만
type UniverseSyncJob struct {
	store  UniverseStore
	list   func() []string
	logger *logger.Logger
}

// NewUniverseSyncJob creates a new universe sync job
func NewUniverseSyncJob(store UniverseStore, list func() []string, log *logger.Logger) *UniverseSyncJob {
	return &UniverseSyncJob{
		store:  store,
		list:   list,
		logger: log,
	}
}

// Name returns the job name
func (j *UniverseSyncJob) Name() string {
	return "universe_sync"
}

// Schedule returns the cron schedule
func (j *UniverseSyncJob) Schedule() string {
	return DefaultUniverseSchedule
}

// Run replaces the stored universe with the bundled list
func (j *UniverseSyncJob) Run(ctx context.Context) error {
	tickers := j.list()

	n, err := j.store.Replace(ctx, tickers)
	if err != nil {
		return fmt.Errorf("replace universe: %w", err)
	}

	j.logger.WithField("tickers", n).Info("Universe synced")
	return nil
}
