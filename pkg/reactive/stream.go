package reactive

import "sync"

// Stream adapts a receive channel into an observable that always holds the
// latest element emitted by the source. The pump goroutine exits when the
// source channel closes or the stream is closed.
type Stream[T comparable] struct {
	value *Value[T]

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewStream starts tracking ch. The observable holds initial until the
// source emits its first element.
func NewStream[T comparable](ch <-chan T, initial T) *Stream[T] {
	s := &Stream[T]{
		value: NewValue(initial),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.pump(ch)
	return s
}

// Value exposes the underlying observable, for use with React.
func (s *Stream[T]) Value() *Value[T] {
	return s.value
}

// Get returns the latest element seen on the source.
func (s *Stream[T]) Get() T {
	return s.value.Get()
}

// Observe registers fn on the underlying observable.
func (s *Stream[T]) Observe(fn Observer[T]) (dispose func()) {
	return s.value.Observe(fn)
}

// Close stops the pump goroutine and waits for it to exit. Idempotent.
func (s *Stream[T]) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Stream[T]) pump(ch <-chan T) {
	defer close(s.done)
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				return
			}
			s.value.Set(next)
		case <-s.stop:
			return
		}
	}
}
