// Package shared holds domain building blocks used by every aggregate.
package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// AggregateRoot collects the domain events an aggregate raises.
// Aggregates embed it and record state changes with AddEvent.
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent records a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// ClearEvents drops pending events without returning them
func (a *AggregateRoot) ClearEvents() {
	a.events = nil
}
