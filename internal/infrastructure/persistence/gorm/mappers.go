package gorm

import (
	"github.com/panmaat/backend/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                 r.ID(),
		OwnerID:            r.OwnerID(),
		Title:              r.Title(),
		Ingredients:        StringSlice(r.Ingredients()),
		Steps:              StringSlice(r.Steps()),
		CookingTimeMinutes: r.CookingTime(),
		Servings:           r.Servings(),
		Category:           r.Category().String(),
		ImageURL:           r.ImageURL(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return recipe.Rehydrate(
		m.ID,
		m.OwnerID,
		m.Title,
		[]string(m.Ingredients),
		[]string(m.Steps),
		m.CookingTimeMinutes,
		m.Servings,
		recipe.ParseCategory(m.Category),
		m.ImageURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
