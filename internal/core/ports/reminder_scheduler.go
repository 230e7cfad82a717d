package ports

import "dispatch/internal/core/domain/model/order"

// ReminderScheduler starts the reminder timers of an accepted order. The returned
// handle is attached to the order, which cancels it when it leaves Accepted.
type ReminderScheduler interface {
	Schedule(o *order.Order) order.ReminderHandle
}
