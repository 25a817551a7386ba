package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/ports/outbound"
)

// RecipeRepository implements an in-memory recipe repository
type RecipeRepository struct {
	recipes map[uuid.UUID]*recipe.Recipe
	mutex   sync.RWMutex
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{
		recipes: make(map[uuid.UUID]*recipe.Recipe),
	}
}

// Create stores a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.recipes[rec.ID()] = rec
	return nil
}

// FindByID retrieves a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, exists := r.recipes[id]
	if !exists {
		return nil, recipe.ErrRecipeNotFound
	}
	return rec, nil
}

// FindByOwner retrieves recipes belonging to an owner, newest first
func (r *RecipeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var matched []*recipe.Recipe
	for _, rec := range r.recipes {
		if rec.OwnerID() != ownerID {
			continue
		}
		if filter.Category != nil && rec.Category() != *filter.Category {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	total := len(matched)

	if filter.Offset >= total {
		return []*recipe.Recipe{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// Update replaces a stored recipe with its edited form
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipes[rec.ID()]; !exists {
		return recipe.ErrRecipeNotFound
	}
	r.recipes[rec.ID()] = rec
	return nil
}

// SetImageURL updates the image URL of a stored recipe
func (r *RecipeRepository) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rec, exists := r.recipes[id]
	if !exists {
		return recipe.ErrRecipeNotFound
	}

	updated := recipe.Rehydrate(
		rec.ID(),
		rec.OwnerID(),
		rec.Title(),
		rec.Ingredients(),
		rec.Steps(),
		rec.CookingTime(),
		rec.Servings(),
		rec.Category(),
		imageURL,
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	r.recipes[id] = updated
	return nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipes[id]; !exists {
		return recipe.ErrRecipeNotFound
	}
	delete(r.recipes, id)
	return nil
}
