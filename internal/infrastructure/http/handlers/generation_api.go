// Package handlers provides HTTP handlers for recipe generation endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/ports/inbound"
)

// GenerationHandlers handles the stateless generation endpoints.
// These endpoints speak a fixed public contract: a flat candidate object on
// success and a bare {"error": ...} object with status 400 or 500 otherwise.
type GenerationHandlers struct {
	generationService inbound.GenerationService
	imageService      inbound.ImageService
	logger            *zap.Logger
}

// NewGenerationHandlers creates a new generation handlers instance
func NewGenerationHandlers(
	generationService inbound.GenerationService,
	imageService inbound.ImageService,
	logger *zap.Logger,
) *GenerationHandlers {
	return &GenerationHandlers{
		generationService: generationService,
		imageService:      imageService,
		logger:            logger,
	}
}

// GenerateRecipeRequest represents a stateless recipe generation request
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings,omitempty"`
	Category    string   `json:"category,omitempty"`
	Variation   bool     `json:"variation,omitempty"`
}

// GenerateImageRequest represents a dish photo generation request
type GenerateImageRequest struct {
	Title string `json:"title"`
}

// GenerateImageResponse carries the generated photo as base64
type GenerateImageResponse struct {
	ImageBase64 string `json:"imageBase64"`
}

// GenerateRecipe handles POST /api/v1/generate-recipe
func (h *GenerationHandlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req GenerateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	ingredients := generation.CleanIngredients(req.Ingredients)
	if len(ingredients) == 0 {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "At least one ingredient is required")
		return
	}

	candidate, err := h.generationService.GenerateOnce(r.Context(), inbound.GenerateCommand{
		Ingredients: ingredients,
		Servings:    req.Servings,
		Category:    recipe.ParseCategory(req.Category),
		Variation:   req.Variation,
	})
	if err != nil {
		h.logger.Error("Recipe generation failed", zap.Error(err))
		writeErrorJSON(w, h.logger, http.StatusInternalServerError, "Failed to generate recipe")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, candidate)
}

// GenerateImage handles POST /api/v1/generate-image
func (h *GenerationHandlers) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Title == "" {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Title is required")
		return
	}

	imageBase64, err := h.imageService.GenerateImage(r.Context(), req.Title)
	if err != nil {
		h.logger.Error("Image generation failed", zap.Error(err))
		writeErrorJSON(w, h.logger, http.StatusInternalServerError, "Failed to generate image")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, GenerateImageResponse{ImageBase64: imageBase64})
}
