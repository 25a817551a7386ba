// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
)

// GenerationService defines the use cases of the ingredient-to-recipe
// workflow. This is the primary port that HTTP handlers drive.
type GenerationService interface {
	// GenerateOnce produces a single candidate without a session.
	// It backs the stateless generation endpoint.
	GenerateOnce(ctx context.Context, cmd GenerateCommand) (*CandidateDTO, error)

	// Session workflow
	StartSession(ctx context.Context, cmd StartSessionCommand) (*SessionDTO, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*SessionDTO, error)
	Regenerate(ctx context.Context, sessionID, userID uuid.UUID) (*SessionDTO, error)
	Confirm(ctx context.Context, sessionID, userID uuid.UUID) (*RecipeDTO, error)
	Abandon(ctx context.Context, sessionID, userID uuid.UUID) error

	// Sweep drops idle and closed sessions. The lifecycle ticker
	// drives it periodically.
	Sweep()
}

// ImageService defines standalone dish photo generation
type ImageService interface {
	// GenerateImage returns the base64 payload of a generated photo.
	GenerateImage(ctx context.Context, title string) (string, error)

	// Attach generates a photo for a persisted recipe and stores it.
	// It reports success with ok, never an error: attachment is
	// best-effort and a recipe without an image stays valid.
	Attach(ctx context.Context, recipeID uuid.UUID, title string) (url string, ok bool)
}

// RecipeService defines the manual and read side of saved recipes
type RecipeService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, ownerID uuid.UUID, query ListRecipesQuery) (*RecipeList, error)
	UpdateRecipe(ctx context.Context, recipeID uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID, ownerID uuid.UUID) error
}

// Command objects for operations

// GenerateCommand asks for one candidate from an ingredient list
type GenerateCommand struct {
	Ingredients []string
	Servings    int
	Category    recipe.Category
	Variation   bool
}

// StartSessionCommand opens a generation session from raw input
type StartSessionCommand struct {
	UserID      uuid.UUID
	Ingredients string // free text, comma separated
	Servings    int
	Category    recipe.Category
}

// CreateRecipeCommand carries a hand-entered recipe. Ingredients come
// one per line; steps are separated by blank lines or "1." numbering.
type CreateRecipeCommand struct {
	OwnerID     uuid.UUID
	Title       string
	Ingredients string
	Steps       string
	CookingTime int
	Servings    int
	Category    recipe.Category
}

// UpdateRecipeCommand carries edits to a saved recipe, in the same
// free-text shape as CreateRecipeCommand.
type UpdateRecipeCommand struct {
	OwnerID     uuid.UUID
	Title       string
	Ingredients string
	Steps       string
	CookingTime int
	Servings    int
	Category    recipe.Category
}

// Query objects

// ListRecipesQuery filters an owner's recipe listing
type ListRecipesQuery struct {
	Category string
	Page     int
	PageSize int
}

// Response DTOs

// CandidateDTO mirrors a generated candidate on the wire
type CandidateDTO struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	CookingTime int      `json:"cooking_time"`
	Servings    int      `json:"servings"`
	Category    string   `json:"category"`
}

// SessionDTO exposes session progress to clients
type SessionDTO struct {
	ID          uuid.UUID     `json:"id"`
	State       string        `json:"state"`
	Attempt     int           `json:"attempt"`
	MaxAttempts int           `json:"max_attempts"`
	CanRetry    bool          `json:"can_retry"`
	Candidate   *CandidateDTO `json:"candidate,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

// RecipeDTO is the data transfer object for persisted recipes
type RecipeDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	CookingTime int       `json:"cooking_time"`
	Servings    int       `json:"servings"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// RecipeList for paginated results
type RecipeList struct {
	Recipes    []RecipeDTO `json:"recipes"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewCandidateDTO maps a domain candidate to its wire form
func NewCandidateDTO(c generation.Candidate) *CandidateDTO {
	return &CandidateDTO{
		Title:       c.Title,
		Ingredients: c.Ingredients,
		Steps:       c.Steps,
		CookingTime: c.CookingTime,
		Servings:    c.Servings,
		Category:    c.Category.String(),
	}
}
