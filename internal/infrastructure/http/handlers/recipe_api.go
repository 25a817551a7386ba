// Package handlers provides HTTP handlers for saved recipe endpoints
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/infrastructure/http/middleware"
	"github.com/panmaat/backend/internal/ports/inbound"
)

// RecipeHandlers handles the CRUD side of saved recipes
type RecipeHandlers struct {
	recipeService inbound.RecipeService
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewRecipeHandlers creates a new recipe handlers instance
func NewRecipeHandlers(
	recipeService inbound.RecipeService,
	logger *zap.Logger,
) *RecipeHandlers {
	return &RecipeHandlers{
		recipeService: recipeService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// RecipeRequest carries a hand-entered recipe. Ingredients come one per
// line; steps are separated by blank lines or "1." numbering.
type RecipeRequest struct {
	Title       string `json:"title" validate:"required"`
	Ingredients string `json:"ingredients" validate:"required"`
	Steps       string `json:"steps" validate:"required"`
	CookingTime int    `json:"cooking_time" validate:"required,min=1"`
	Servings    int    `json:"servings" validate:"required,min=1,max=20"`
	Category    string `json:"category" validate:"required"`
}

// CreateRecipe handles POST /api/v1/recipes
func (h *RecipeHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeAppError(w, h.logger, appValidationError(err))
		return
	}

	created, err := h.recipeService.CreateRecipe(r.Context(), inbound.CreateRecipeCommand{
		OwnerID:     userID,
		Title:       req.Title,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		CookingTime: req.CookingTime,
		Servings:    req.Servings,
		Category:    recipe.ParseCategory(req.Category),
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    created,
		Message: "Recipe created",
	})
}

// UpdateRecipe handles PUT /api/v1/recipes/{recipeID}
func (h *RecipeHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeAppError(w, h.logger, appValidationError(err))
		return
	}

	updated, err := h.recipeService.UpdateRecipe(r.Context(), recipeID, inbound.UpdateRecipeCommand{
		OwnerID:     userID,
		Title:       req.Title,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		CookingTime: req.CookingTime,
		Servings:    req.Servings,
		Category:    recipe.ParseCategory(req.Category),
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    updated,
		Message: "Recipe updated",
	})
}

// ListRecipes handles GET /api/v1/recipes
func (h *RecipeHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	query := inbound.ListRecipesQuery{
		Category: r.URL.Query().Get("category"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		query.Page = page
	}
	if pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		query.PageSize = pageSize
	}

	list, err := h.recipeService.ListRecipes(r.Context(), userID, query)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    list,
	})
}

// GetRecipe handles GET /api/v1/recipes/{recipeID}
func (h *RecipeHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(r.Context(), recipeID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    recipe,
	})
}

// DeleteRecipe handles DELETE /api/v1/recipes/{recipeID}
func (h *RecipeHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	if err := h.recipeService.DeleteRecipe(r.Context(), recipeID, userID); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Message: "Recipe deleted",
	})
}
