package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls int
}

func (r *stubRunner) RebuildAll(ctx context.Context) error {
	r.calls++
	return nil
}

func newTestScheduler() (*Scheduler, *stubRunner) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	runner := &stubRunner{}
	return NewScheduler(runner, log), runner
}

func TestScheduleRebuildRejectsBadCron(t *testing.T) {
	s, _ := newTestScheduler()
	err := s.ScheduleRebuild("not a cron spec")
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s, _ := newTestScheduler()
	err := s.Start()
	assert.Error(t, err)
}

func TestStartStopLifecycle(t *testing.T) {
	s, _ := newTestScheduler()
	require.NoError(t, s.ScheduleRebuild("0 3 * * *"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "second start must fail")

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now()))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stop is idempotent")
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s, _ := newTestScheduler()
	require.NoError(t, s.ScheduleRebuild("0 3 * * *"))
	require.NoError(t, s.Start())
	defer s.Stop()

	err := s.ScheduleRebuild("0 4 * * *")
	assert.Error(t, err)
}

func TestScheduledJobRunsRunner(t *testing.T) {
	s, runner := newTestScheduler()
	// Every-second schedule via the optional seconds field is not enabled,
	// so drive the job function through a one-minute spec and fire the
	// entry manually.
	require.NoError(t, s.ScheduleRebuild("* * * * *"))
	require.NoError(t, s.Start())
	defer s.Stop()

	entry := s.cron.Entry(s.jobIDs[0])
	require.True(t, entry.Valid())
	entry.Job.Run()

	assert.Equal(t, 1, runner.calls)
}
