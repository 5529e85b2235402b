// Package notify turns connectivity state changes into outbound
// notifications. A dispatcher observes the watcher state through a debounced
// reaction, so a flap that settles within the debounce window produces no
// notification at all.
package notify

import (
	"context"
	"log"

	"github.com/rdfernandes/connwatch/internal/models"
)

// Notifier delivers a single state-change notification.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, change models.StateChange) error
}

// LogNotifier writes state changes to the process log.
type LogNotifier struct{}

// Name identifies the notifier in logs.
func (LogNotifier) Name() string { return "log" }

// Notify logs the transition.
func (LogNotifier) Notify(_ context.Context, change models.StateChange) error {
	if change.To.Online() {
		log.Printf("connectivity restored (%s -> %s)", change.From, change.To)
		return nil
	}
	log.Printf("connectivity lost (%s -> %s)", change.From, change.To)
	return nil
}
