// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
)

// RecipeRepository defines the interface for recipe persistence
// This follows the Repository pattern for data access abstraction
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter RecipeFilter) ([]*recipe.Recipe, int, error)
	Update(ctx context.Context, recipe *recipe.Recipe) error
	SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecipeFilter narrows owner recipe listings
type RecipeFilter struct {
	Category *recipe.Category
	Offset   int
	Limit    int
}

// RecipeGenerator defines the interface for AI recipe generation.
// A failed call reports one of the generation domain errors; the
// generator never retries on its own.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, req generation.Request) (generation.Candidate, error)
}

// ImageGenerator defines the interface for AI dish photo generation
type ImageGenerator interface {
	// GenerateImage returns the raw base64 payload of a generated
	// photo for the given dish title.
	GenerateImage(ctx context.Context, title string) (string, error)
}

// StorageService defines the interface for file storage
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
