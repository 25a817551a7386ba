package generation

import (
	"time"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/domain/shared"
)

// State is the lifecycle state of a generation session.
type State string

const (
	// StateAwaitingFirst means the session exists but no candidate has
	// been produced yet.
	StateAwaitingFirst State = "awaiting_first"
	// StateHasCandidate means a candidate is held and may be
	// regenerated or confirmed.
	StateHasCandidate State = "has_candidate"
	// StateRegenerating means a regeneration call is in flight.
	StateRegenerating State = "regenerating"
	// StateConfirmed is terminal: the candidate became a recipe.
	StateConfirmed State = "confirmed"
	// StateAbandoned is terminal: the user walked away.
	StateAbandoned State = "abandoned"
)

// DefaultMaxAttempts bounds how often a single session may generate.
const DefaultMaxAttempts = 3

// Session is the aggregate that owns one ingredient-to-recipe workflow.
// It holds exactly one candidate at a time and enforces the attempt
// bound before any provider call is made.
type Session struct {
	shared.AggregateRoot

	id      uuid.UUID
	ownerID uuid.UUID

	// originalIngredients is the cleaned user input. Every regeneration
	// request is built from these, never from a candidate's own
	// ingredient list, so variations cannot drift.
	originalIngredients []string
	servings            int
	category            recipe.Category

	attempt     int
	maxAttempts int

	current *Candidate
	state   State

	createdAt time.Time
	updatedAt time.Time
}

// NewSession starts a session from raw ingredient text. The text is
// comma-split and cleaned; input that cleans down to nothing is
// rejected before any provider call could happen.
func NewSession(ownerID uuid.UUID, rawIngredients string, servings int, category recipe.Category, maxAttempts int) (*Session, error) {
	ingredients := ParseIngredients(rawIngredients)
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if !category.Valid() {
		category = recipe.DefaultCategory
	}
	if servings <= 0 {
		servings = recipe.DefaultServings
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	now := time.Now()
	s := &Session{
		id:                  uuid.New(),
		ownerID:             ownerID,
		originalIngredients: ingredients,
		servings:            servings,
		category:            category,
		maxAttempts:         maxAttempts,
		state:               StateAwaitingFirst,
		createdAt:           now,
		updatedAt:           now,
	}

	s.AddEvent(SessionStartedEvent{
		SessionID:   s.id,
		OwnerID:     ownerID,
		Ingredients: ingredients,
		StartedAt:   now,
	})

	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() uuid.UUID {
	return s.id
}

// OwnerID returns the user the session belongs to
func (s *Session) OwnerID() uuid.UUID {
	return s.ownerID
}

// OriginalIngredients returns the cleaned user input
func (s *Session) OriginalIngredients() []string {
	return s.originalIngredients
}

// Servings returns the requested serving count
func (s *Session) Servings() int {
	return s.servings
}

// Category returns the requested category
func (s *Session) Category() recipe.Category {
	return s.category
}

// Attempt returns how many candidates have been produced so far
func (s *Session) Attempt() int {
	return s.attempt
}

// MaxAttempts returns the generation bound for this session
func (s *Session) MaxAttempts() int {
	return s.maxAttempts
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return s.state
}

// Current returns the held candidate, or nil when there is none
func (s *Session) Current() *Candidate {
	return s.current
}

// CreatedAt returns when the session was started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the session last changed
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// CanRegenerate reports whether another generation is still allowed
func (s *Session) CanRegenerate() bool {
	return s.state == StateHasCandidate && s.attempt < s.maxAttempts
}

// Closed reports whether the session reached a terminal state
func (s *Session) Closed() bool {
	return s.state == StateConfirmed || s.state == StateAbandoned
}

// FirstRequest builds the provider request for the first candidate.
func (s *Session) FirstRequest() (Request, error) {
	if s.state != StateAwaitingFirst {
		return Request{}, s.transitionError()
	}
	return Request{
		Ingredients: s.originalIngredients,
		Servings:    s.servings,
		Category:    s.category,
	}, nil
}

// AcceptFirst stores the first candidate and starts counting attempts.
func (s *Session) AcceptFirst(c Candidate) error {
	if s.state != StateAwaitingFirst {
		return s.transitionError()
	}

	s.current = &c
	s.attempt = 1
	s.state = StateHasCandidate
	s.updatedAt = time.Now()

	s.AddEvent(CandidateProducedEvent{
		SessionID:   s.id,
		Title:       c.Title,
		Attempt:     s.attempt,
		MaxAttempts: s.maxAttempts,
		ProducedAt:  s.updatedAt,
	})

	return nil
}

// BeginRegeneration reserves the next attempt and returns the variation
// request. It refuses before anything leaves the process when the
// attempt bound is reached, so a refused regeneration costs nothing.
func (s *Session) BeginRegeneration() (Request, error) {
	if s.state != StateHasCandidate {
		return Request{}, s.transitionError()
	}
	if s.attempt >= s.maxAttempts {
		return Request{}, ErrAttemptsExhausted
	}

	s.state = StateRegenerating
	s.updatedAt = time.Now()

	return Request{
		Ingredients: s.originalIngredients,
		Servings:    s.servings,
		Category:    s.category,
		Variation:   true,
	}, nil
}

// CompleteRegeneration replaces the candidate and spends the attempt.
func (s *Session) CompleteRegeneration(c Candidate) error {
	if s.state != StateRegenerating {
		return s.transitionError()
	}

	s.current = &c
	s.attempt++
	s.state = StateHasCandidate
	s.updatedAt = time.Now()

	s.AddEvent(CandidateProducedEvent{
		SessionID:   s.id,
		Title:       c.Title,
		Attempt:     s.attempt,
		MaxAttempts: s.maxAttempts,
		ProducedAt:  s.updatedAt,
	})

	return nil
}

// FailRegeneration rolls back to the held candidate. The failed call
// does not spend an attempt and the previous candidate survives.
func (s *Session) FailRegeneration() error {
	if s.state != StateRegenerating {
		return s.transitionError()
	}
	s.state = StateHasCandidate
	s.updatedAt = time.Now()
	return nil
}

// Confirmable returns the candidate that would be persisted.
func (s *Session) Confirmable() (Candidate, error) {
	if s.state != StateHasCandidate || s.current == nil {
		return Candidate{}, ErrNoCandidate
	}
	return *s.current, nil
}

// MarkConfirmed closes the session after the candidate was persisted.
func (s *Session) MarkConfirmed(recipeID uuid.UUID) error {
	if s.state != StateHasCandidate {
		return s.transitionError()
	}

	s.state = StateConfirmed
	s.current = nil
	s.updatedAt = time.Now()

	s.AddEvent(SessionConfirmedEvent{
		SessionID:   s.id,
		RecipeID:    recipeID,
		ConfirmedAt: s.updatedAt,
	})

	return nil
}

// Abandon closes the session, discarding any held candidate.
func (s *Session) Abandon() error {
	if s.Closed() {
		return ErrSessionClosed
	}

	s.state = StateAbandoned
	s.current = nil
	s.updatedAt = time.Now()

	s.AddEvent(SessionAbandonedEvent{
		SessionID:   s.id,
		AbandonedAt: s.updatedAt,
	})

	return nil
}

func (s *Session) transitionError() error {
	if s.Closed() {
		return ErrSessionClosed
	}
	return ErrInvalidTransition
}
