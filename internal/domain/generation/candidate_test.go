package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/panmaat/backend/internal/domain/recipe"
)

// CandidateTestSuite provides a test suite for candidate normalization
type CandidateTestSuite struct {
	suite.Suite
}

func (suite *CandidateTestSuite) request() Request {
	return Request{
		Ingredients: []string{"ei", "spinazie"},
		Servings:    2,
		Category:    recipe.CategoryDinner,
	}
}

func (suite *CandidateTestSuite) TestNormalize() {
	suite.Run("CompleteCandidate_ShouldPassThrough", func() {
		// Arrange
		candidate := Candidate{
			Title:       "Spinazie omelet",
			Ingredients: []string{"ei", "spinazie", "boter"},
			Steps:       []string{"Klop de eieren", "Bak de spinazie"},
			CookingTime: 15,
			Servings:    2,
			Category:    recipe.CategoryDinner,
		}

		// Act
		result, err := candidate.Normalize(suite.request())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Spinazie omelet", result.Title)
		assert.Equal(suite.T(), 15, result.CookingTime)
		assert.Equal(suite.T(), 2, result.Servings)
	})

	suite.Run("RequestedCategory_AlwaysWins", func() {
		// Arrange
		req := suite.request()
		req.Category = recipe.CategoryDessert
		candidate := Candidate{
			Title:       "Chocolademousse",
			Ingredients: []string{"chocolade", "room"},
			Steps:       []string{"Smelt de chocolade"},
			CookingTime: 20,
			Servings:    4,
			Category:    recipe.CategoryDinner,
		}

		// Act
		result, err := candidate.Normalize(req)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), recipe.CategoryDessert, result.Category)
	})

	suite.Run("MissingCookingTime_FallsBackToDefault", func() {
		// Arrange
		candidate := Candidate{
			Title:       "Spinazie omelet",
			Ingredients: []string{"ei"},
			Steps:       []string{"Bak"},
			CookingTime: 0,
			Servings:    2,
		}

		// Act
		result, err := candidate.Normalize(suite.request())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), recipe.DefaultCookingTime, result.CookingTime)
	})

	suite.Run("MissingServings_FallsBackToRequested", func() {
		// Arrange
		req := suite.request()
		req.Servings = 3
		candidate := Candidate{
			Title:       "Spinazie omelet",
			Ingredients: []string{"ei"},
			Steps:       []string{"Bak"},
			CookingTime: 10,
			Servings:    0,
		}

		// Act
		result, err := candidate.Normalize(req)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 3, result.Servings)
	})

	suite.Run("ProviderServings_KeptWhenPresent", func() {
		// Arrange
		req := suite.request()
		req.Servings = 2
		candidate := Candidate{
			Title:       "Spinazie omelet",
			Ingredients: []string{"ei"},
			Steps:       []string{"Bak"},
			CookingTime: 10,
			Servings:    6,
		}

		// Act
		result, err := candidate.Normalize(req)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 6, result.Servings)
	})

	suite.Run("OverlongLists_AreTruncated", func() {
		// Arrange
		ingredients := make([]string, recipe.MaxIngredients+5)
		for i := range ingredients {
			ingredients[i] = "ingredient"
		}
		steps := make([]string, recipe.MaxSteps+5)
		for i := range steps {
			steps[i] = "stap"
		}
		candidate := Candidate{
			Title:       "Veel te veel",
			Ingredients: ingredients,
			Steps:       steps,
			CookingTime: 10,
			Servings:    2,
		}

		// Act
		result, err := candidate.Normalize(suite.request())

		// Assert
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), result.Ingredients, recipe.MaxIngredients)
		assert.Len(suite.T(), result.Steps, recipe.MaxSteps)
	})

	suite.Run("EmptyTitle_ShouldReturnError", func() {
		// Arrange
		candidate := Candidate{
			Title:       "   ",
			Ingredients: []string{"ei"},
			Steps:       []string{"Bak"},
		}

		// Act
		_, err := candidate.Normalize(suite.request())

		// Assert
		assert.ErrorIs(suite.T(), err, ErrIncompleteCandidate)
	})

	suite.Run("NoSteps_ShouldReturnError", func() {
		// Arrange
		candidate := Candidate{
			Title:       "Spinazie omelet",
			Ingredients: []string{"ei"},
			Steps:       []string{"  ", ""},
		}

		// Act
		_, err := candidate.Normalize(suite.request())

		// Assert
		assert.ErrorIs(suite.T(), err, ErrIncompleteCandidate)
	})
}

func (suite *CandidateTestSuite) TestParseIngredients() {
	suite.Run("CommaSeparated_ShouldSplitAndTrim", func() {
		result := ParseIngredients(" ei , spinazie ,boter")

		assert.Equal(suite.T(), []string{"ei", "spinazie", "boter"}, result)
	})

	suite.Run("EmptyText_ShouldYieldNothing", func() {
		assert.Empty(suite.T(), ParseIngredients(""))
		assert.Empty(suite.T(), ParseIngredients("   "))
		assert.Empty(suite.T(), ParseIngredients(" , , "))
	})
}

func (suite *CandidateTestSuite) TestCleanIngredients() {
	suite.Run("DropsEmptiesAndTrims", func() {
		result := CleanIngredients([]string{" ei ", "", "  ", "spinazie"})

		assert.Equal(suite.T(), []string{"ei", "spinazie"}, result)
	})
}

// TestCandidateTestSuite runs the candidate test suite
func TestCandidateTestSuite(t *testing.T) {
	suite.Run(t, new(CandidateTestSuite))
}
