package jobs

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// DefaultWatchInterval is how often expired trials are swept when no interval is configured.
const DefaultWatchInterval = time.Hour

// EntitlementWatchJob sweeps expired trials on a jittered interval. A sweep still
// running when the next one is due makes that tick a no-op.
type EntitlementWatchJob struct {
	handler  commands.SweepTrialsCommandHandler
	schedule cron.Schedule
	cron     *cron.Cron
	logger   *slog.Logger
	ctx      context.Context
	stop     context.CancelFunc
}

// NewEntitlementWatchJob creates the watcher. Each run is due interval after the
// previous one plus a random delay below jitter.
func NewEntitlementWatchJob(handler commands.SweepTrialsCommandHandler, interval, jitter time.Duration, logger *slog.Logger) *EntitlementWatchJob {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	logger = logger.With("component", "entitlement_watch_job")

	return &EntitlementWatchJob{
		handler:  handler,
		schedule: jitteredSchedule{every: interval, jitter: jitter},
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		logger: logger,
	}
}

// Start schedules the sweep. Runs stop when ctx is done or Stop is called.
func (j *EntitlementWatchJob) Start(ctx context.Context) error {
	j.ctx, j.stop = context.WithCancel(ctx)
	j.cron.Schedule(j.schedule, cron.FuncJob(j.Run))
	j.cron.Start()
	j.logger.InfoContext(ctx, "Entitlement watch job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep.
func (j *EntitlementWatchJob) Run() {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := j.handler.Handle(ctx, commands.NewSweepTrialsCommand()); err != nil && ctx.Err() == nil {
		j.logger.ErrorContext(ctx, "Entitlement watch job failed", "error", err)
	}
}

// Stop cancels a running sweep and waits for it to return.
func (j *EntitlementWatchJob) Stop() {
	if j.stop != nil {
		j.stop()
	}
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Entitlement watch job stopped")
}

type jitteredSchedule struct {
	every  time.Duration
	jitter time.Duration
}

func (s jitteredSchedule) Next(t time.Time) time.Time {
	next := t.Add(s.every)
	if s.jitter > 0 {
		next = next.Add(rand.N(s.jitter))
	}
	return next
}

func (s jitteredSchedule) String() string {
	return "@every " + s.every.String() + " +jitter " + s.jitter.String()
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
