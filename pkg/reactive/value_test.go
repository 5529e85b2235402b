package reactive_test

import (
	"sync"
	"testing"

	"github.com/rdfernandes/connwatch/pkg/reactive"
)

func TestValueGetSet(t *testing.T) {
	v := reactive.NewValue("offline")
	if got := v.Get(); got != "offline" {
		t.Fatalf("initial value = %q, want %q", got, "offline")
	}
	v.Set("online")
	if got := v.Get(); got != "online" {
		t.Fatalf("value after Set = %q, want %q", got, "online")
	}
}

func TestValueNotifiesOnlyOnChange(t *testing.T) {
	v := reactive.NewValue(0)

	var calls []int
	dispose := v.Observe(func(_, next int) {
		calls = append(calls, next)
	})
	defer dispose()

	v.Set(0) // unchanged, no notification
	v.Set(1)
	v.Set(1) // unchanged, no notification
	v.Set(2)

	want := []int{1, 2}
	if len(calls) != len(want) {
		t.Fatalf("got %d notifications (%v), want %d", len(calls), calls, len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("notification %d = %d, want %d", i, calls[i], want[i])
		}
	}
}

func TestValueObserverSeesOldAndNew(t *testing.T) {
	v := reactive.NewValue("unknown")

	var gotOld, gotNext string
	dispose := v.Observe(func(old, next string) {
		gotOld, gotNext = old, next
	})
	defer dispose()

	v.Set("online")
	if gotOld != "unknown" || gotNext != "online" {
		t.Fatalf("observer saw (%q, %q), want (%q, %q)", gotOld, gotNext, "unknown", "online")
	}
}

func TestValueDisposeStopsNotifications(t *testing.T) {
	v := reactive.NewValue(0)

	calls := 0
	dispose := v.Observe(func(_, _ int) {
		calls++
	})

	v.Set(1)
	dispose()
	dispose() // idempotent
	v.Set(2)

	if calls != 1 {
		t.Fatalf("got %d notifications, want 1", calls)
	}
}

func TestValueMultipleObservers(t *testing.T) {
	v := reactive.NewValue(0)

	a, b := 0, 0
	disposeA := v.Observe(func(_, _ int) { a++ })
	disposeB := v.Observe(func(_, _ int) { b++ })
	defer disposeB()

	v.Set(1)
	disposeA()
	v.Set(2)

	if a != 1 {
		t.Errorf("observer a ran %d times, want 1", a)
	}
	if b != 2 {
		t.Errorf("observer b ran %d times, want 2", b)
	}
}

func TestValueConcurrentSet(t *testing.T) {
	v := reactive.NewValue(0)

	var mu sync.Mutex
	seen := make(map[int]bool)
	dispose := v.Observe(func(_, next int) {
		mu.Lock()
		seen[next] = true
		mu.Unlock()
	})
	defer dispose()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
		}(i)
	}
	wg.Wait()

	// The final value must be one of the written values and every
	// notification must carry a written value.
	final := v.Get()
	if final < 1 || final > 50 {
		t.Fatalf("final value %d outside written range", final)
	}
	mu.Lock()
	defer mu.Unlock()
	for n := range seen {
		if n < 1 || n > 50 {
			t.Errorf("observer saw %d, never written", n)
		}
	}
}
