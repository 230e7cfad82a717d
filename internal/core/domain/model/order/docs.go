// Package order provides the committed order aggregate and its state machine.
//
// An order is keyed by its customer id: a customer has at most one order at a time and
// starting a new one replaces the previous entry. Each order also carries an instance
// UUID so that callers can tell a replaced order from the one they read.
//
// State transitions:
//
//	Open ──accept──> Accepted ──complete──> Completed ──rate (once)
//	 ^                  │
//	 └──driver cancel───┘
//
// Cancel by the customer or an admin removes the order; the registry owns removal.
// Every exit from Accepted cancels the order's reminder handle.
package order
