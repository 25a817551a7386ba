package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the recipe domain

// CreatedEvent is raised when a confirmed candidate becomes a recipe
type CreatedEvent struct {
	RecipeID  uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Category  Category
	CreatedAt time.Time
}

func (e CreatedEvent) EventName() string {
	return "recipe.created"
}

func (e CreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// UpdatedEvent is raised when an owner edits a saved recipe
type UpdatedEvent struct {
	RecipeID  uuid.UUID
	Title     string
	UpdatedAt time.Time
}

func (e UpdatedEvent) EventName() string {
	return "recipe.updated"
}

func (e UpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// ImageAttachedEvent is raised when a generated image is attached
type ImageAttachedEvent struct {
	RecipeID   uuid.UUID
	ImageURL   string
	AttachedAt time.Time
}

func (e ImageAttachedEvent) EventName() string {
	return "recipe.image.attached"
}

func (e ImageAttachedEvent) OccurredAt() time.Time {
	return e.AttachedAt
}

// DeletedEvent is raised when an owner removes a recipe
type DeletedEvent struct {
	RecipeID  uuid.UUID
	OwnerID   uuid.UUID
	DeletedAt time.Time
}

func (e DeletedEvent) EventName() string {
	return "recipe.deleted"
}

func (e DeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
