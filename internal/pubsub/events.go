// Package pubsub carries typed events from background publishers into the
// Bubble Tea update loop. Pastille has two producers: the logger publishes
// each formatted line for the debug overlay, and the config watcher
// publishes file-change events that drive live reload.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies what happened to the payload's subject.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event is one published occurrence with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out receive channels scoped to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher fans an event out to all current subscribers.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
