// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
)

// CandidateFactory builds generated recipe candidates for tests
type CandidateFactory struct {
	faker *gofakeit.Faker
}

// NewCandidateFactory creates a new candidate factory with seeded faker
func NewCandidateFactory(seed int64) *CandidateFactory {
	return &CandidateFactory{
		faker: gofakeit.New(seed),
	}
}

// Candidate builds a fully populated candidate for the given category
func (f *CandidateFactory) Candidate(category recipe.Category) generation.Candidate {
	ingredients := make([]string, 4)
	for i := range ingredients {
		ingredients[i] = f.faker.Fruit()
	}

	steps := make([]string, 5)
	for i := range steps {
		steps[i] = f.faker.Sentence(8)
	}

	return generation.Candidate{
		Title:       f.faker.Dinner(),
		Ingredients: ingredients,
		Steps:       steps,
		CookingTime: f.faker.Number(10, 90),
		Servings:    f.faker.Number(1, 6),
		Category:    category,
	}
}

// IngredientList builds n free-text ingredient names
func (f *CandidateFactory) IngredientList(n int) []string {
	list := make([]string, n)
	for i := range list {
		list[i] = f.faker.Fruit()
	}
	return list
}

// RecipeFactory builds persisted recipe aggregates for tests
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe builds a valid recipe owned by ownerID
func (f *RecipeFactory) Recipe(ownerID uuid.UUID) *recipe.Recipe {
	ingredients := make([]string, 3)
	for i := range ingredients {
		ingredients[i] = f.faker.Fruit()
	}

	steps := make([]string, 4)
	for i := range steps {
		steps[i] = f.faker.Sentence(6)
	}

	r, err := recipe.New(
		ownerID,
		f.faker.Dinner(),
		ingredients,
		steps,
		f.faker.Number(10, 90),
		f.faker.Number(1, 6),
		recipe.DefaultCategory,
	)
	if err != nil {
		panic(err)
	}
	r.Events() // drop the creation event, tests assert their own
	return r
}

// RecipeInCategory builds a valid recipe in the given category
func (f *RecipeFactory) RecipeInCategory(ownerID uuid.UUID, category recipe.Category) *recipe.Recipe {
	r, err := recipe.New(
		ownerID,
		f.faker.Dinner(),
		[]string{f.faker.Fruit(), f.faker.Fruit()},
		[]string{f.faker.Sentence(6)},
		30,
		2,
		category,
	)
	if err != nil {
		panic(err)
	}
	r.Events()
	return r
}

// RehydratedRecipe builds a recipe as it would come back from storage
func (f *RecipeFactory) RehydratedRecipe(id, ownerID uuid.UUID, createdAt time.Time) *recipe.Recipe {
	return recipe.Rehydrate(
		id,
		ownerID,
		f.faker.Dinner(),
		[]string{f.faker.Fruit(), f.faker.Fruit()},
		[]string{f.faker.Sentence(6), f.faker.Sentence(6)},
		30,
		2,
		recipe.DefaultCategory,
		"",
		createdAt,
		createdAt,
	)
}
