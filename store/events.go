package store

import "github.com/tailored-agentic-units/tasks/observability"

// Store event types.
const (
	EventOpen   observability.EventType = "store.open"
	EventInsert observability.EventType = "store.insert"
	EventUpdate observability.EventType = "store.update"
	EventRemove observability.EventType = "store.remove"
	EventDrop   observability.EventType = "store.drop"
	EventPurge  observability.EventType = "store.purge"
	EventError  observability.EventType = "store.error"
)
