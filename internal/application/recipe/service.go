// Package recipe provides the application layer for saved recipes:
// manual creation and editing, the read side, and owner-initiated
// removal.
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/domain/shared"
	"github.com/panmaat/backend/internal/ports/inbound"
	"github.com/panmaat/backend/internal/ports/outbound"
	"github.com/panmaat/backend/pkg/errors"
)

const defaultPageSize = 20

// Service implements the recipe CRUD use cases
type Service struct {
	recipeRepo outbound.RecipeRepository
	cache      outbound.CacheRepository
	storage    outbound.StorageService
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewService creates a new recipe service
func NewService(
	recipeRepo outbound.RecipeRepository,
	cache outbound.CacheRepository,
	storage outbound.StorageService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) inbound.RecipeService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Service{
		recipeRepo: recipeRepo,
		cache:      cache,
		storage:    storage,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe saves a hand-entered recipe. Ingredients and steps
// arrive as free text and are split into lists before validation.
func (s *Service) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, errors.NewUnauthorizedError("")
	}

	ingredients := recipe.ParseIngredientLines(cmd.Ingredients)
	steps := recipe.ParseStepBlocks(cmd.Steps)

	entity, err := recipe.New(cmd.OwnerID, cmd.Title, ingredients, steps, cmd.CookingTime, cmd.Servings, cmd.Category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}
	s.drainEvents(entity.Events())

	s.logger.Info("recipe created",
		zap.String("recipe_id", entity.ID().String()),
		zap.String("owner_id", cmd.OwnerID.String()),
		zap.String("title", entity.Title()),
	)

	return entityToDTO(entity), nil
}

// UpdateRecipe replaces an owned recipe's content with edited free text.
func (s *Service) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, errors.NewUnauthorizedError("")
	}

	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	if !entity.OwnedBy(cmd.OwnerID) {
		// Hide other users' recipes instead of admitting they exist.
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}

	ingredients := recipe.ParseIngredientLines(cmd.Ingredients)
	steps := recipe.ParseStepBlocks(cmd.Steps)

	if err := entity.Update(cmd.Title, ingredients, steps, cmd.CookingTime, cmd.Servings, cmd.Category); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.recipeRepo.Update(ctx, entity); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}
	s.drainEvents(entity.Events())

	if err := s.cache.Delete(ctx, cacheKey(recipeID)); err != nil {
		s.logger.Warn("failed to invalidate recipe cache",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("recipe updated",
		zap.String("recipe_id", recipeID.String()),
		zap.String("owner_id", cmd.OwnerID.String()),
	)

	return entityToDTO(entity), nil
}

// GetRecipeByID returns a single recipe, cache-first.
func (s *Service) GetRecipeByID(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	key := cacheKey(recipeID)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		var dto inbound.RecipeDTO
		if err := json.Unmarshal(cached, &dto); err == nil {
			return &dto, nil
		}
		// A stale or corrupt entry falls through to the database.
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to drop bad cache entry", zap.String("key", key), zap.Error(err))
		}
	}

	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	dto := entityToDTO(entity)

	if payload, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache recipe", zap.String("key", key), zap.Error(err))
		}
	}

	return dto, nil
}

// ListRecipes returns a page of the owner's recipes, optionally
// filtered by category.
func (s *Service) ListRecipes(ctx context.Context, ownerID uuid.UUID, query inbound.ListRecipesQuery) (*inbound.RecipeList, error) {
	if ownerID == uuid.Nil {
		return nil, errors.NewUnauthorizedError("")
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	filter := outbound.RecipeFilter{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if query.Category != "" {
		category := recipe.ParseCategory(query.Category)
		filter.Category = &category
	}

	entities, total, err := s.recipeRepo.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	dtos := make([]inbound.RecipeDTO, len(entities))
	for i, entity := range entities {
		dtos[i] = *entityToDTO(entity)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &inbound.RecipeList{
		Recipes:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// DeleteRecipe removes a recipe after an ownership check.
func (s *Service) DeleteRecipe(ctx context.Context, recipeID, ownerID uuid.UUID) error {
	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return errors.NewRecipeNotFoundError(recipeID.String())
		}
		return errors.NewDatabaseError("find recipe", err)
	}

	if !entity.OwnedBy(ownerID) {
		// Hide other users' recipes instead of admitting they exist.
		return errors.NewRecipeNotFoundError(recipeID.String())
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	// Best-effort: an orphaned image costs storage, not correctness.
	if entity.HasImage() {
		if err := s.storage.Delete(ctx, fmt.Sprintf("%s.png", recipeID)); err != nil {
			s.logger.Warn("failed to delete recipe image",
				zap.String("recipe_id", recipeID.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.cache.Delete(ctx, cacheKey(recipeID)); err != nil {
		s.logger.Warn("failed to invalidate recipe cache",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("recipe deleted",
		zap.String("recipe_id", recipeID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	return nil
}

func (s *Service) drainEvents(events []shared.DomainEvent) {
	for _, event := range events {
		s.logger.Debug("domain event", zap.String("event", event.EventName()))
	}
}

func cacheKey(recipeID uuid.UUID) string {
	return fmt.Sprintf("recipe:%s", recipeID)
}

func entityToDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	return &inbound.RecipeDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		Ingredients: r.Ingredients(),
		Steps:       r.Steps(),
		CookingTime: r.CookingTime(),
		Servings:    r.Servings(),
		Category:    r.Category().String(),
		ImageURL:    r.ImageURL(),
		CreatedAt:   r.CreatedAt().UTC().Format(time.RFC3339),
	}
}
