package memory

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// KeyedMutex hands out one lock per customer. Entries are dropped when the last
// holder or waiter releases them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[kernel.UserID]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

var _ ports.OrderLocks = (*KeyedMutex)(nil)

// NewKeyedMutex returns an empty set of per-key locks.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[kernel.UserID]*keyedEntry)}
}

// Lock blocks until the lock of customerID is free and returns its release func.
// The release func must be called exactly once.
//
// Example:
//
//	unlock := locks.Lock(customerID)
//	defer unlock()
func (k *KeyedMutex) Lock(customerID kernel.UserID) func() {
	k.mu.Lock()
	e, ok := k.locks[customerID]
	if !ok {
		e = &keyedEntry{}
		k.locks[customerID] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, customerID)
			}
			k.mu.Unlock()
		})
	}
}

func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
