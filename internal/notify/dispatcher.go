package notify

import (
	"context"
	"log"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
	"github.com/rdfernandes/connwatch/internal/storage"
	"github.com/rdfernandes/connwatch/pkg/reactive"
)

const notifyTimeout = 15 * time.Second

// Dispatcher observes a connectivity state and fans debounced changes out to
// notifiers.
type Dispatcher struct {
	state     *reactive.Value[models.ConnState]
	notifiers []Notifier
	debounce  time.Duration
	changeLog *storage.ChangeLog

	// prev is only touched from the reaction goroutine.
	prev     models.ConnState
	reaction *reactive.Reaction[models.ConnState]
}

// NewDispatcher wires notifiers to the observable state. changeLog may be
// nil; debounce <= 0 notifies on every settled change without delay.
func NewDispatcher(state *reactive.Value[models.ConnState], debounce time.Duration, changeLog *storage.ChangeLog, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		state:     state,
		notifiers: notifiers,
		debounce:  debounce,
		changeLog: changeLog,
	}
}

// Start registers the debounced reaction. The baseline for change detection
// is the state at the moment Start is called.
func (d *Dispatcher) Start() {
	d.prev = d.state.Get()
	d.reaction = reactive.React(d.state, d.onSettled, reactive.WithDelay(d.debounce))
}

// Stop disposes the reaction. Safe to call more than once; after Stop
// returns no further notification is delivered.
func (d *Dispatcher) Stop() {
	if d.reaction != nil {
		d.reaction.Dispose()
	}
}

// onSettled runs once per debounce window with the last observed state. A
// flap that returned to the previous state within the window is dropped.
func (d *Dispatcher) onSettled(next models.ConnState) {
	if next == d.prev {
		return
	}
	change := models.StateChange{
		From: d.prev,
		To:   next,
		At:   time.Now().UTC(),
	}
	d.prev = next

	if d.changeLog != nil {
		if err := d.changeLog.Append(change); err != nil {
			log.Printf("persist state change: %v", err)
		}
	}

	for _, n := range d.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		if err := n.Notify(ctx, change); err != nil {
			log.Printf("notify %s: %v", n.Name(), err)
		}
		cancel()
	}
}
