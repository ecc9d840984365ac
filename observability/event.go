package observability

import (
	"context"
	"time"
)

// EventType is a dotted event name such as "store.insert".
type EventType string

// Event describes something a store did. Data is flat: keys map to scalar
// values that log cleanly as attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// NewEvent returns an Event timestamped now.
func NewEvent(typ EventType, level Level, source string, data map[string]any) Event {
	return Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	}
}

// Observer consumes events. OnEvent runs inline on the emitting goroutine,
// so it must return promptly and must not call back into the store.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver ignores events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// MultiObserver hands each event to every member, first to last.
type MultiObserver []Observer

// NewMultiObserver groups observers, leaving out nils.
func NewMultiObserver(observers ...Observer) MultiObserver {
	m := make(MultiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, o := range m {
		o.OnEvent(ctx, event)
	}
}
