// Package reactive provides small observable primitives: values holding the
// latest element of an asynchronous source, and reactions that run a side
// effect when an observed value changes, optionally after a debounce delay.
//
// Subscriptions are explicit. There is no automatic dependency capture; an
// observer watches exactly the value it was registered on.
package reactive

import "sync"

// Observer receives the previous and new value after a change.
type Observer[T any] func(old, next T)

// Value is a thread-safe observable box around a single comparable value.
// Observers are notified only when Set actually changes the value.
type Value[T comparable] struct {
	mu        sync.Mutex
	current   T
	seq       int
	observers map[int]Observer[T]
}

// NewValue creates an observable holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{
		current:   initial,
		observers: make(map[int]Observer[T]),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores next and notifies observers when it differs from the current
// value. Observers run on the caller's goroutine, outside the lock.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	if next == v.current {
		v.mu.Unlock()
		return
	}
	old := v.current
	v.current = next
	observers := make([]Observer[T], 0, len(v.observers))
	for _, ob := range v.observers {
		observers = append(observers, ob)
	}
	v.mu.Unlock()

	for _, ob := range observers {
		ob(old, next)
	}
}

// Observe registers fn to run on every change and returns a dispose function.
// Disposing is idempotent; after it returns, fn is never invoked again by a
// subsequent Set.
func (v *Value[T]) Observe(fn Observer[T]) (dispose func()) {
	v.mu.Lock()
	v.seq++
	id := v.seq
	v.observers[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			v.mu.Unlock()
		})
	}
}
