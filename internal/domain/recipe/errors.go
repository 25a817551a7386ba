package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrEmptyTitle         = errors.New("recipe title is required")
	ErrNoOwner            = errors.New("recipe must have an owner")
	ErrNoIngredients      = errors.New("recipe must have at least one ingredient")
	ErrTooManyIngredients = errors.New("recipe exceeds the ingredient limit")
	ErrNoSteps            = errors.New("recipe must have at least one preparation step")
	ErrTooManySteps       = errors.New("recipe exceeds the step limit")
	ErrInvalidCategory    = errors.New("unknown recipe category")

	// Image attachment errors
	ErrEmptyImageURL        = errors.New("image URL is required")
	ErrImageAlreadyAttached = errors.New("recipe already has an image")

	// Lookup errors
	ErrRecipeNotFound = errors.New("recipe not found")
)
