package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/jobs"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReaper struct {
	calls    int
	lastIdle time.Duration
	reaped   int
}

func (f *fakeReaper) Reap(idle time.Duration) int {
	f.calls++
	f.lastIdle = idle
	return f.reaped
}

func (f *fakeReaper) Len() int { return 0 }

func TestScheduler_AddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("a", "0 */5 * * * *", func() {}))
	assert.Error(t, s.AddJob("a", "0 */5 * * * *", func() {}), "duplicate names are rejected")
	assert.Error(t, s.AddJob("b", "not a cron expression", func() {}))
	assert.ElementsMatch(t, []string{"a"}, s.GetJobNames())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetJobNames())
}

func TestScheduler_RunNow(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	ran := 0
	require.NoError(t, s.AddJob("count", "@every 1h", func() { ran++ }))
	require.NoError(t, s.RunNow("count"))
	assert.Equal(t, 1, ran)

	assert.Error(t, s.RunNow("missing"))
}

func TestSessionReaperJob_DefaultIdle(t *testing.T) {
	reaper := &fakeReaper{reaped: 2}
	job := jobs.NewSessionReaperJob(reaper, 0, zap.NewNop())

	assert.Equal(t, 2, job.Run())
	assert.Equal(t, 1, reaper.calls)
	assert.Equal(t, jobs.DefaultIdleTimeout, reaper.lastIdle)
}

func TestRegisterSessionReaperJob_ReapsIdleWorkers(t *testing.T) {
	d := queue.NewDispatcher(zap.NewNop())
	defer d.Close()

	for _, key := range []string{"s1", "s2"} {
		require.NoError(t, d.Do(context.Background(), key, func(ctx context.Context) error { return nil }))
	}
	require.Equal(t, 2, d.Len())

	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, jobs.RegisterSessionReaperJob(s, d, zap.NewNop(), "0 */5 * * * *", time.Nanosecond))
	assert.Contains(t, s.GetJobNames(), jobs.SessionReaperJobName)

	time.Sleep(time.Millisecond)
	require.NoError(t, s.RunNow(jobs.SessionReaperJobName))
	assert.Equal(t, 0, d.Len())
}
