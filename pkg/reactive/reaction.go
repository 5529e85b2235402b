package reactive

import (
	"sync"
	"time"
)

// Option configures a reaction.
type Option func(*reactionOptions)

type reactionOptions struct {
	delay           time.Duration
	fireImmediately bool
}

// WithDelay debounces the effect: it runs at most once per quiet window of d,
// with the last observed value, once d has elapsed after the last change.
func WithDelay(d time.Duration) Option {
	return func(o *reactionOptions) {
		o.delay = d
	}
}

// WithFireImmediately runs the effect once with the current value as soon as
// the reaction is created, before any change is observed.
func WithFireImmediately() Option {
	return func(o *reactionOptions) {
		o.fireImmediately = true
	}
}

// Reaction couples an observed value to a side effect. The effect runs on the
// reaction's own goroutine, never on the goroutine that mutated the value.
// Intermediate values observed while the effect is busy or the debounce
// window is open are dropped; the latest value wins.
type Reaction[T comparable] struct {
	delay  time.Duration
	effect func(T)

	unobserve func()
	pending   chan T
	stop      chan struct{}
	done      chan struct{}

	disposeOnce sync.Once
}

// React registers effect to run whenever v changes. Dispose the returned
// reaction to unsubscribe; after Dispose returns the effect will not run
// again.
func React[T comparable](v *Value[T], effect func(T), opts ...Option) *Reaction[T] {
	var o reactionOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Reaction[T]{
		delay:   o.delay,
		effect:  effect,
		pending: make(chan T, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	r.unobserve = v.Observe(func(_, next T) {
		r.push(next)
	})

	var first *T
	if o.fireImmediately {
		current := v.Get()
		first = &current
	}
	go r.loop(first)
	return r
}

// Dispose unsubscribes from the observed value and stops the effect
// goroutine. Idempotent; blocks until the goroutine has exited.
func (r *Reaction[T]) Dispose() {
	r.disposeOnce.Do(func() {
		r.unobserve()
		close(r.stop)
	})
	<-r.done
}

// push hands next to the effect goroutine, replacing any value it has not
// picked up yet.
func (r *Reaction[T]) push(next T) {
	for {
		select {
		case r.pending <- next:
			return
		case <-r.stop:
			return
		default:
		}
		select {
		case <-r.pending:
		default:
		}
	}
}

func (r *Reaction[T]) loop(first *T) {
	defer close(r.done)

	if first != nil {
		r.effect(*first)
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
		last   T
	)
	for {
		select {
		case next := <-r.pending:
			last = next
			if r.delay <= 0 {
				r.effect(next)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.delay)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			r.effect(last)
		case <-r.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
