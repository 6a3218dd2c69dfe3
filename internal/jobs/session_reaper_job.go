package jobs

import (
	"time"

	"go.uber.org/zap"
)

// SessionReaperJobName is the name of the idle session worker reaper
const SessionReaperJobName = "session_reaper"

// DefaultIdleTimeout applies when no idle timeout is configured
const DefaultIdleTimeout = 10 * time.Minute

// WorkerReaper stops per-session workers that have gone idle.
// queue.Dispatcher satisfies it.
type WorkerReaper interface {
	Reap(idle time.Duration) int
	Len() int
}

// SessionReaperJob frees the goroutines of sessions that stopped sending requests
type SessionReaperJob struct {
	reaper WorkerReaper
	idle   time.Duration
	logger *zap.Logger
}

// NewSessionReaperJob creates the job. A non-positive idle uses DefaultIdleTimeout.
func NewSessionReaperJob(reaper WorkerReaper, idle time.Duration, logger *zap.Logger) *SessionReaperJob {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SessionReaperJob{
		reaper: reaper,
		idle:   idle,
		logger: logger,
	}
}

// Run reaps once and reports how many workers were stopped
func (j *SessionReaperJob) Run() int {
	start := time.Now()
	reaped := j.reaper.Reap(j.idle)

	if reaped > 0 {
		j.logger.Info("session reaper completed",
			zap.Int("reaped", reaped),
			zap.Int("active", j.reaper.Len()),
			zap.Duration("idle_timeout", j.idle),
			zap.Duration("duration", time.Since(start)))
	}
	return reaped
}

// RegisterSessionReaperJob registers the reaper with the scheduler.
// The cronExpr uses the scheduler's six-field format (e.g. "0 */5 * * * *").
func RegisterSessionReaperJob(scheduler *Scheduler, reaper WorkerReaper, logger *zap.Logger, cronExpr string, idle time.Duration) error {
	job := NewSessionReaperJob(reaper, idle, logger)
	return scheduler.AddJob(SessionReaperJobName, cronExpr, func() { job.Run() })
}
