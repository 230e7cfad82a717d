package jobs

import (
	"context"
	"log/slog"
)

// Job is a background task with an explicit lifetime.
type Job interface {
	Start(ctx context.Context) error
	Stop()
}

// JobManager starts and stops a set of jobs together.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *slog.Logger
}

// NewJobManager creates a manager that starts jobs in the given order and stops them
// in reverse.
func NewJobManager(logger *slog.Logger, jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs, logger: logger.With("component", "job_manager")}
}

// StartAll starts every job in order. When one fails, the jobs already started are
// stopped and the error is returned.
func (m *JobManager) StartAll(ctx context.Context) error {
	for _, job := range m.jobs {
		if err := job.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Job failed to start", "error", err)
			m.StopAll()
			return err
		}
		m.started = append(m.started, job)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (m *JobManager) StopAll() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.started[i].Stop()
	}
	m.started = nil
}
