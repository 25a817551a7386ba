package generation

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the generation domain

// SessionStartedEvent is raised when a generation session begins
type SessionStartedEvent struct {
	SessionID   uuid.UUID
	OwnerID     uuid.UUID
	Ingredients []string
	StartedAt   time.Time
}

func (e SessionStartedEvent) EventName() string {
	return "generation.session.started"
}

func (e SessionStartedEvent) OccurredAt() time.Time {
	return e.StartedAt
}

// CandidateProducedEvent is raised each time a candidate lands
type CandidateProducedEvent struct {
	SessionID   uuid.UUID
	Title       string
	Attempt     int
	MaxAttempts int
	ProducedAt  time.Time
}

func (e CandidateProducedEvent) EventName() string {
	return "generation.candidate.produced"
}

func (e CandidateProducedEvent) OccurredAt() time.Time {
	return e.ProducedAt
}

// SessionConfirmedEvent is raised when a candidate becomes a recipe
type SessionConfirmedEvent struct {
	SessionID   uuid.UUID
	RecipeID    uuid.UUID
	ConfirmedAt time.Time
}

func (e SessionConfirmedEvent) EventName() string {
	return "generation.session.confirmed"
}

func (e SessionConfirmedEvent) OccurredAt() time.Time {
	return e.ConfirmedAt
}

// SessionAbandonedEvent is raised when a session is discarded
type SessionAbandonedEvent struct {
	SessionID   uuid.UUID
	AbandonedAt time.Time
}

func (e SessionAbandonedEvent) EventName() string {
	return "generation.session.abandoned"
}

func (e SessionAbandonedEvent) OccurredAt() time.Time {
	return e.AbandonedAt
}
