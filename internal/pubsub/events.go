// Package pubsub fans typed events out to any number of subscribers. The
// forge service publishes unit lifecycle events through it and the logger
// publishes formatted log lines.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to the payload.
type EventType string

const (
	// CreatedEvent marks a finished construction or a new log line.
	CreatedEvent EventType = "created"
	// FailedEvent marks a construction that returned an error.
	FailedEvent EventType = "failed"
	// EvictedEvent marks a unit removed from the store, by expiry or on request.
	EvictedEvent EventType = "evicted"
)

// Event wraps a payload with its type and publication time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber is implemented by sources of events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher is implemented by sinks that accept events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)
