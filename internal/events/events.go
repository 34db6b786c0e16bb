// Package events publishes domain events after the changes they describe
// have been committed.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

const (
	ReconciliationFinalized = "reconciliation.finalized"
	ReconciliationClosed    = "reconciliation.closed"
	ChargesGenerated        = "charges.generated"
	PlanCancelled           = "plan.cancelled"
	PettyCashReplenished    = "petty_cash.replenished"
)

// Event is a domain event. Name is used as routing key.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// New creates an event with a new sortable id.
func New(name string, data any) Event {
	return Event{
		ID:         ulid.Make().String(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func (e Event) body() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards all events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps all published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

var (
	mu      sync.RWMutex
	current Publisher = Noop{}
)

// SetDefault replaces the publisher used by Emit and returns the previous one.
func SetDefault(p Publisher) Publisher {
	mu.Lock()
	defer mu.Unlock()

	previous := current
	current = p
	return previous
}

// Default returns the publisher used by Emit.
func Default() Publisher {
	mu.RLock()
	defer mu.RUnlock()

	return current
}

// Emit publishes an event with the default publisher.
//
// Failures are logged and never returned: the change the event describes
// is already committed.
func Emit(ctx context.Context, name string, data any) {
	event := New(name, data)

	err := Default().Publish(ctx, event)
	if err != nil {
		log.Error().Err(err).Str("event", name).Str("event-id", event.ID).Msg("Publishing event failed")
		return
	}

	log.Debug().Str("event", name).Str("event-id", event.ID).Msg("Event published")
}
