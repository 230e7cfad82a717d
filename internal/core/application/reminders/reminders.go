// Package reminders schedules the driver reminders of an accepted order.
//
// An accepted order gets up to four reminders, 60, 30 and 15 minutes before its
// time and at the time itself. Milestones already in the past are skipped. The
// timers of one acceptance form a Group that the order owns and cancels when it
// leaves Accepted; a cancelled reminder exits silently.
package reminders

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/metrics"
)

// Offsets are the reminder milestones in minutes before the order time.
var Offsets = []int{60, 30, 15, 0}

// Milestone is one reminder to fire after Delay.
type Milestone struct {
	Offset int
	Delay  time.Duration
}

// Milestones computes the reminders for an order due at when, seen from now. The
// order time is resolved with kernel.TimeOfDay.NextInstant, so a time already past
// today counts as "now" and only the zero-offset reminder remains, firing at once.
//
// Example:
//
//	// now 18:10, order at 19:00 -> 30m at 18:30, 15m at 18:45, 0m at 19:00
//	ms := reminders.Milestones(when, now)
func Milestones(when kernel.TimeOfDay, now time.Time) []Milestone {
	toEvent := when.NextInstant(now).Sub(now)

	out := make([]Milestone, 0, len(Offsets))
	for _, offset := range Offsets {
		delay := toEvent - time.Duration(offset)*time.Minute
		if delay < 0 {
			continue
		}
		out = append(out, Milestone{Offset: offset, Delay: delay})
	}
	return out
}

// Group is the set of reminder goroutines of one acceptance.
type Group struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Cancel stops every pending reminder without waiting for the goroutines. It runs
// under repository locks, so a reminder whose send is already in flight finishes on
// its own. It is safe to call more than once.
func (g *Group) Cancel() {
	if g.cancel != nil {
		g.cancel()
	}
}

// Wait blocks until every reminder goroutine of the group has exited.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Scheduler implements ports.ReminderScheduler on top of an injectable clock.
type Scheduler struct {
	root    context.Context
	gateway ports.MessagingGateway
	clock   clock.Clock
	logger  *slog.Logger
}

var _ ports.ReminderScheduler = (*Scheduler)(nil)

// NewScheduler returns a scheduler whose reminders stop when root is done.
func NewScheduler(root context.Context, gateway ports.MessagingGateway, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		root:    root,
		gateway: gateway,
		clock:   clk,
		logger:  logger.With("component", "reminders"),
	}
}

// Schedule starts the reminders of an accepted order and returns their Group.
// An order without a driver gets an empty group.
func (s *Scheduler) Schedule(o *order.Order) order.ReminderHandle {
	ctx, cancel := context.WithCancel(s.root)
	g := &Group{cancel: cancel}

	driver, ok := o.Driver()
	if !ok {
		return g
	}

	details := o.Details()
	for _, m := range Milestones(details.When, s.clock.Now()) {
		timer := s.clock.NewTimer(m.Delay)
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			s.fire(ctx, timer, int64(driver), m.Offset, details)
		}()
	}
	return g
}

func (s *Scheduler) fire(ctx context.Context, timer clock.Timer, chatID int64, offset int, details order.Details) {
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C():
	}
	if ctx.Err() != nil {
		return
	}

	msg := ports.Message{Text: messages.Reminder(offset, details), DisablePreview: true}
	if _, err := s.gateway.Send(ctx, chatID, msg); err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.RecordGatewayFailure("reminder")
		s.logger.Warn("reminder not delivered", "chat_id", chatID, "offset", offset, "error", err)
		return
	}
	metrics.RemindersFiredTotal.WithLabelValues(strconv.Itoa(offset)).Inc()
}
