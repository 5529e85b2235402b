package reactive_test

import (
	"testing"
	"time"

	"github.com/rdfernandes/connwatch/pkg/reactive"
)

func TestReactionFiresOnChange(t *testing.T) {
	v := reactive.NewValue(0)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	})
	defer r.Dispose()

	v.Set(1)
	if got := waitFor(t, effects); got != 1 {
		t.Fatalf("effect saw %d, want 1", got)
	}
	v.Set(2)
	if got := waitFor(t, effects); got != 2 {
		t.Fatalf("effect saw %d, want 2", got)
	}
}

// A burst of changes separated by less than the debounce delay must produce
// exactly one effect, carrying the last value, once the delay has elapsed
// after the last change.
func TestReactionDebounceCoalescesBurst(t *testing.T) {
	v := reactive.NewValue(0)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	}, reactive.WithDelay(200*time.Millisecond))
	defer r.Dispose()

	for i := 1; i <= 5; i++ {
		v.Set(i)
		time.Sleep(20 * time.Millisecond)
	}

	if got := waitFor(t, effects); got != 5 {
		t.Fatalf("debounced effect saw %d, want 5", got)
	}

	// No further effect may arrive for the same burst.
	select {
	case extra := <-effects:
		t.Fatalf("unexpected second effect with value %d", extra)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestReactionDebounceSeparateBursts(t *testing.T) {
	v := reactive.NewValue(0)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	}, reactive.WithDelay(100*time.Millisecond))
	defer r.Dispose()

	v.Set(1)
	if got := waitFor(t, effects); got != 1 {
		t.Fatalf("first burst effect saw %d, want 1", got)
	}

	v.Set(2)
	if got := waitFor(t, effects); got != 2 {
		t.Fatalf("second burst effect saw %d, want 2", got)
	}
}

func TestReactionFireImmediately(t *testing.T) {
	v := reactive.NewValue(42)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	}, reactive.WithFireImmediately())
	defer r.Dispose()

	if got := waitFor(t, effects); got != 42 {
		t.Fatalf("immediate effect saw %d, want 42", got)
	}
}

func TestReactionDisposeStopsEffect(t *testing.T) {
	v := reactive.NewValue(0)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	})

	v.Set(1)
	waitFor(t, effects)

	r.Dispose()
	r.Dispose() // idempotent

	v.Set(2)
	select {
	case got := <-effects:
		t.Fatalf("effect ran after Dispose with value %d", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestReactionDisposeCancelsPendingDebounce(t *testing.T) {
	v := reactive.NewValue(0)
	effects := make(chan int, 8)

	r := reactive.React(v, func(next int) {
		effects <- next
	}, reactive.WithDelay(150*time.Millisecond))

	v.Set(1)
	r.Dispose()

	select {
	case got := <-effects:
		t.Fatalf("debounced effect ran after Dispose with value %d", got)
	case <-time.After(400 * time.Millisecond):
	}
}
