// Package recipe contains the core domain logic for saved recipes.
// This follows Domain-Driven Design principles with rich domain models.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/shared"
)

// Recipe represents a durable, user-owned recipe.
// Instances are only created by confirming a generated candidate,
// so the aggregate enforces the generation pipeline's output bounds.
type Recipe struct {
	shared.AggregateRoot

	id      uuid.UUID
	ownerID uuid.UUID

	title       string
	ingredients []string
	steps       []string

	cookingTime int // minutes
	servings    int
	category    Category

	imageURL string

	createdAt time.Time
	updatedAt time.Time
}

// Limits on recipe content, shared with the generation pipeline.
const (
	MaxIngredients = 8
	MaxSteps       = 10

	DefaultCookingTime = 30
	DefaultServings    = 2
)

// New creates a recipe owned by ownerID from confirmed candidate content.
func New(ownerID uuid.UUID, title string, ingredients, steps []string, cookingTime, servings int, category Category) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if ownerID == uuid.Nil {
		return nil, ErrNoOwner
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(ingredients) > MaxIngredients {
		return nil, ErrTooManyIngredients
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if len(steps) > MaxSteps {
		return nil, ErrTooManySteps
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if cookingTime <= 0 {
		cookingTime = DefaultCookingTime
	}
	if servings <= 0 {
		servings = DefaultServings
	}

	now := time.Now()
	r := &Recipe{
		id:          uuid.New(),
		ownerID:     ownerID,
		title:       title,
		ingredients: append([]string(nil), ingredients...),
		steps:       append([]string(nil), steps...),
		cookingTime: cookingTime,
		servings:    servings,
		category:    category,
		createdAt:   now,
		updatedAt:   now,
	}

	r.AddEvent(CreatedEvent{
		RecipeID:  r.id,
		OwnerID:   ownerID,
		Title:     title,
		Category:  category,
		CreatedAt: now,
	})

	return r, nil
}

// Rehydrate reconstructs a recipe from persisted state without raising events.
func Rehydrate(id, ownerID uuid.UUID, title string, ingredients, steps []string, cookingTime, servings int, category Category, imageURL string, createdAt, updatedAt time.Time) *Recipe {
	return &Recipe{
		id:          id,
		ownerID:     ownerID,
		title:       title,
		ingredients: ingredients,
		steps:       steps,
		cookingTime: cookingTime,
		servings:    servings,
		category:    category,
		imageURL:    imageURL,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// OwnerID returns the owning user's identifier
func (r *Recipe) OwnerID() uuid.UUID {
	return r.ownerID
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Ingredients returns the recipe's ingredients
func (r *Recipe) Ingredients() []string {
	return r.ingredients
}

// Steps returns the preparation steps
func (r *Recipe) Steps() []string {
	return r.steps
}

// CookingTime returns the cooking time in minutes
func (r *Recipe) CookingTime() int {
	return r.cookingTime
}

// Servings returns the number of servings
func (r *Recipe) Servings() int {
	return r.servings
}

// Category returns the recipe's category
func (r *Recipe) Category() Category {
	return r.category
}

// ImageURL returns the recipe's image URL, empty when no image is attached
func (r *Recipe) ImageURL() string {
	return r.imageURL
}

// HasImage reports whether an image has been attached
func (r *Recipe) HasImage() bool {
	return r.imageURL != ""
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// AttachImage records the stored image URL for the recipe.
// Attachment happens at most once, after the recipe is persisted.
func (r *Recipe) AttachImage(url string) error {
	if url == "" {
		return ErrEmptyImageURL
	}
	if r.imageURL != "" {
		return ErrImageAlreadyAttached
	}

	r.imageURL = url
	r.updatedAt = time.Now()

	r.AddEvent(ImageAttachedEvent{
		RecipeID:   r.id,
		ImageURL:   url,
		AttachedAt: r.updatedAt,
	})

	return nil
}

// Update replaces the recipe's editable content. Validation matches
// creation so an edit cannot push a recipe outside the content bounds.
func (r *Recipe) Update(title string, ingredients, steps []string, cookingTime, servings int, category Category) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(ingredients) > MaxIngredients {
		return ErrTooManyIngredients
	}
	if len(steps) == 0 {
		return ErrNoSteps
	}
	if len(steps) > MaxSteps {
		return ErrTooManySteps
	}
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if cookingTime <= 0 {
		cookingTime = DefaultCookingTime
	}
	if servings <= 0 {
		servings = DefaultServings
	}

	r.title = title
	r.ingredients = append([]string(nil), ingredients...)
	r.steps = append([]string(nil), steps...)
	r.cookingTime = cookingTime
	r.servings = servings
	r.category = category
	r.updatedAt = time.Now()

	r.AddEvent(UpdatedEvent{
		RecipeID:  r.id,
		Title:     title,
		UpdatedAt: r.updatedAt,
	})

	return nil
}

// OwnedBy reports whether userID owns this recipe
func (r *Recipe) OwnedBy(userID uuid.UUID) bool {
	return r.ownerID == userID
}
