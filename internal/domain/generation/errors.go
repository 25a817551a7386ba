package generation

import "errors"

// Domain errors for the generation pipeline

var (
	// Input errors
	ErrNoIngredients = errors.New("at least one ingredient is required")

	// Session lifecycle errors
	ErrAttemptsExhausted = errors.New("maximum generation attempts reached")
	ErrNoCandidate       = errors.New("session holds no candidate")
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrSessionClosed     = errors.New("session is already closed")
	ErrSessionNotFound   = errors.New("generation session not found")

	// Provider errors, mapped by the AI client
	ErrGenerationUnavailable = errors.New("recipe generation is unavailable")
	ErrEmptyResponse         = errors.New("provider returned an empty completion")
	ErrParseFailed           = errors.New("provider completion is not a valid recipe")
	ErrIncompleteCandidate   = errors.New("candidate is missing required fields")
)
