package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscope/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	runs     int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.runs, 1)
	if n <= atomic.LoadInt32(&j.failures) {
		return errors.New("transient")
	}
	return nil
}

func TestAddAndRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "warm", schedule: "0 0 */6 * * *"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate name")
	assert.Equal(t, []string{"warm"}, s.GetAllJobs())

	require.NoError(t, s.RemoveJob("warm"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("warm"))
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s := New(logger.Nop())
	err := s.AddJob(&countingJob{name: "bad", schedule: "not a schedule"})
	assert.Error(t, err)
	assert.Empty(t, s.GetAllJobs())
}

func TestRunJobRetries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(2, time.Millisecond))
	job := &countingJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob(context.Background(), "flaky"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.runs))

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunJobExhaustsRetries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(1, time.Millisecond))
	job := &countingJob{name: "broken", schedule: "@hourly", failures: 100}
	require.NoError(t, s.AddJob(job))

	assert.Error(t, s.RunJob(context.Background(), "broken"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs))

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "transient", history.Results[0].Error)
	assert.Equal(t, 0.0, history.GetSuccessRate())
}

func TestRunJobCancelledSkipsRetry(t *testing.T) {
	s := New(logger.Nop(), WithRetry(5, time.Hour))
	job := &countingJob{name: "broken", schedule: "@hourly", failures: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.RunJob(ctx, "broken"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.runs))
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.Nop())
	assert.Error(t, s.RunJob(context.Background(), "missing"))

	_, err := s.GetJobHistory("missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "tick", schedule: "* * * * * *"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	// 초 단위 스케줄이므로 2초 안에 최소 1회 실행
	time.Sleep(2100 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&job.runs), int32(1))
}

func TestJobHistoryBounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
