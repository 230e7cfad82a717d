// Package memory holds the process-local registries behind the repository ports.
//
// Every registry hands out copies: a caller never holds a pointer into the map, and a
// change becomes visible only when Update's callback returns nil. Callbacks run under
// the registry lock, so a check and the write it guards cannot interleave with another
// handler. Callbacks must not call back into the same registry.
package memory

import (
	"sync"
)

// registry is a mutex-guarded map whose values are copied on the way in and out.
type registry[K comparable, V any] struct {
	mu     sync.Mutex
	items  map[K]V
	clone  func(V) V
	isZero func(V) bool
}

func newRegistry[K comparable, V any](clone func(V) V) *registry[K, V] {
	return &registry[K, V]{
		items: make(map[K]V),
		clone: clone,
	}
}

func (r *registry[K, V]) get(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return r.clone(v), true
}

// put stores v and returns the value it replaced.
func (r *registry[K, V]) put(key K, v V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.items[key]
	r.items[key] = r.clone(v)
	return prev, ok
}

// mutate runs fn on a copy of the value at key, or on fallback() when the key is
// missing and fallback is not nil, and commits the copy when fn returns nil. Values
// for which isZero reports true are removed instead of stored.
func (r *registry[K, V]) mutate(key K, fallback func() V, fn func(V) error) (V, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero V
	cur, ok := r.items[key]
	switch {
	case ok:
		cur = r.clone(cur)
	case fallback != nil:
		cur = fallback()
	default:
		return zero, errMissing
	}

	if err := fn(cur); err != nil {
		return zero, err
	}

	if r.isZero != nil && r.isZero(cur) {
		delete(r.items, key)
	} else {
		r.items[key] = cur
	}
	return r.clone(cur), nil
}

func (r *registry[K, V]) remove(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items[key]
	delete(r.items, key)
	return v, ok
}

// removeIf deletes the value at key when match reports true for it.
func (r *registry[K, V]) removeIf(key K, match func(V) bool) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items[key]
	if !ok || !match(v) {
		var zero V
		return zero, false
	}
	delete(r.items, key)
	return v, true
}

// each calls fn with a copy of every value while holding the lock.
func (r *registry[K, V]) each(fn func(K, V)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range r.items {
		fn(k, r.clone(v))
	}
}

func (r *registry[K, V]) keys() []K {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]K, 0, len(r.items))
	for k := range r.items {
		out = append(out, k)
	}
	return out
}
