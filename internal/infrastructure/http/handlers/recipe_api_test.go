package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	recipeapp "github.com/panmaat/backend/internal/application/recipe"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/infrastructure/http/handlers"
	"github.com/panmaat/backend/internal/infrastructure/http/middleware"
	"github.com/panmaat/backend/internal/ports/outbound"
	"github.com/panmaat/backend/test/testutils"
)

// RecipeHandlersTestSuite exercises the saved recipe endpoints.
type RecipeHandlersTestSuite struct {
	suite.Suite
	repo    *testutils.MockRecipeRepository
	cache   *testutils.MockCacheRepository
	storage *testutils.MockStorageService
	router  *chi.Mux
	factory *testutils.RecipeFactory
	ownerID uuid.UUID
}

func (suite *RecipeHandlersTestSuite) SetupTest() {
	suite.repo = testutils.NewMockRecipeRepository()
	suite.cache = testutils.NewMockCacheRepository()
	suite.storage = testutils.NewMockStorageService()
	suite.factory = testutils.NewRecipeFactory(42)
	suite.ownerID = uuid.New()

	recipeService := recipeapp.NewService(suite.repo, suite.cache, suite.storage, 15*time.Minute, zap.NewNop())

	h := handlers.NewRecipeHandlers(recipeService, zap.NewNop())
	suite.router = chi.NewRouter()
	suite.router.Route("/api/v1/recipes", func(r chi.Router) {
		r.Post("/", h.CreateRecipe)
		r.Get("/", h.ListRecipes)
		r.Get("/{recipeID}", h.GetRecipe)
		r.Put("/{recipeID}", h.UpdateRecipe)
		r.Delete("/{recipeID}", h.DeleteRecipe)
	})
}

func (suite *RecipeHandlersTestSuite) do(method, path string, asUser uuid.UUID) *httptest.ResponseRecorder {
	return suite.doJSON(method, path, asUser, nil)
}

func (suite *RecipeHandlersTestSuite) doJSON(method, path string, asUser uuid.UUID, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if asUser != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), asUser))
	}

	recorder := httptest.NewRecorder()
	suite.router.ServeHTTP(recorder, req)
	return recorder
}

func (suite *RecipeHandlersTestSuite) decode(recorder *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func (suite *RecipeHandlersTestSuite) TestCreateRecipe() {
	suite.Run("ParsesFreeTextIntoLists", func() {
		// Arrange
		suite.SetupTest()
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		// Act
		recorder := suite.doJSON(http.MethodPost, "/api/v1/recipes", suite.ownerID, map[string]any{
			"title":        "Spinazie omelet",
			"ingredients":  "- 2 eieren\n- verse spinazie",
			"steps":        "1. Klop de eieren\n2. Bak de spinazie",
			"cooking_time": 15,
			"servings":     2,
			"category":     "Diner",
		})

		// Assert
		suite.Equal(http.StatusCreated, recorder.Code)
		body := suite.decode(recorder)
		suite.Equal(true, body["success"])

		data := body["data"].(map[string]any)
		suite.Equal("Spinazie omelet", data["title"])
		suite.Equal([]any{"2 eieren", "verse spinazie"}, data["ingredients"])
		suite.Equal([]any{"Klop de eieren", "Bak de spinazie"}, data["steps"])
		suite.repo.AssertExpectations(suite.T())
	})

	suite.Run("MissingFields_BadRequest", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.doJSON(http.MethodPost, "/api/v1/recipes", suite.ownerID, map[string]any{
			"title": "Spinazie omelet",
		})

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
		suite.repo.AssertNotCalled(suite.T(), "Create")
	})

	suite.Run("InvalidJSON_BadRequest", func() {
		// Arrange
		suite.SetupTest()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader([]byte("{not json")))
		req = req.WithContext(middleware.WithUserID(req.Context(), suite.ownerID))
		recorder := httptest.NewRecorder()

		// Act
		suite.router.ServeHTTP(recorder, req)

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
	})

	suite.Run("Unauthenticated_Unauthorized", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.doJSON(http.MethodPost, "/api/v1/recipes", uuid.Nil, map[string]any{
			"title": "Spinazie omelet",
		})

		// Assert
		suite.Equal(http.StatusUnauthorized, recorder.Code)
	})
}

func (suite *RecipeHandlersTestSuite) TestUpdateRecipe() {
	suite.Run("OwnerEdits", func() {
		// Arrange
		suite.SetupTest()
		entity := suite.factory.Recipe(suite.ownerID)
		suite.repo.On("FindByID", mock.Anything, entity.ID()).Return(entity, nil)
		suite.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		suite.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)

		// Act
		recorder := suite.doJSON(http.MethodPut, "/api/v1/recipes/"+entity.ID().String(), suite.ownerID, map[string]any{
			"title":        "Courgette omelet",
			"ingredients":  "ei\ncourgette",
			"steps":        "Snijd de courgette\n\nBak alles",
			"cooking_time": 20,
			"servings":     4,
			"category":     "Lunch",
		})

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.Equal("Courgette omelet", data["title"])
		suite.Equal([]any{"Snijd de courgette", "Bak alles"}, data["steps"])
		suite.repo.AssertExpectations(suite.T())
	})

	suite.Run("ForeignRecipe_NotFound", func() {
		// Arrange
		suite.SetupTest()
		entity := suite.factory.Recipe(uuid.New())
		suite.repo.On("FindByID", mock.Anything, entity.ID()).Return(entity, nil)

		// Act
		recorder := suite.doJSON(http.MethodPut, "/api/v1/recipes/"+entity.ID().String(), suite.ownerID, map[string]any{
			"title":        "Overgenomen",
			"ingredients":  "ei",
			"steps":        "Bak",
			"cooking_time": 15,
			"servings":     2,
			"category":     "Diner",
		})

		// Assert
		suite.Equal(http.StatusNotFound, recorder.Code)
		suite.repo.AssertNotCalled(suite.T(), "Update")
	})

	suite.Run("InvalidID_BadRequest", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.doJSON(http.MethodPut, "/api/v1/recipes/not-a-uuid", suite.ownerID, map[string]any{
			"title":        "Omelet",
			"ingredients":  "ei",
			"steps":        "Bak",
			"cooking_time": 15,
			"servings":     2,
			"category":     "Diner",
		})

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func (suite *RecipeHandlersTestSuite) TestListRecipes() {
	suite.Run("ReturnsPage", func() {
		// Arrange
		suite.SetupTest()
		entities := []*recipe.Recipe{
			suite.factory.Recipe(suite.ownerID),
			suite.factory.Recipe(suite.ownerID),
		}
		suite.repo.On("FindByOwner", mock.Anything, suite.ownerID, mock.Anything).Return(entities, 2, nil)

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes", suite.ownerID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		body := suite.decode(recorder)
		suite.Equal(true, body["success"])

		data := body["data"].(map[string]any)
		suite.Len(data["recipes"], 2)
		suite.EqualValues(2, data["total"])
	})

	suite.Run("PassesQueryParameters", func() {
		// Arrange
		suite.SetupTest()
		suite.repo.On("FindByOwner", mock.Anything, suite.ownerID, mock.MatchedBy(func(f outbound.RecipeFilter) bool {
			return f.Offset == 5 && f.Limit == 5 &&
				f.Category != nil && *f.Category == recipe.CategoryDessert
		})).Return([]*recipe.Recipe{}, 0, nil)

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes?category=dessert&page=2&page_size=5", suite.ownerID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		suite.repo.AssertExpectations(suite.T())
	})

	suite.Run("Unauthenticated_Unauthorized", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes", uuid.Nil)

		// Assert
		suite.Equal(http.StatusUnauthorized, recorder.Code)
	})
}

func (suite *RecipeHandlersTestSuite) TestGetRecipe() {
	suite.Run("ReturnsRecipe", func() {
		// Arrange
		suite.SetupTest()
		entity := suite.factory.Recipe(suite.ownerID)
		suite.cache.On("Get", mock.Anything, mock.Anything).Return([]byte(nil), nil)
		suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		suite.repo.On("FindByID", mock.Anything, entity.ID()).Return(entity, nil)

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes/"+entity.ID().String(), suite.ownerID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.Equal(entity.Title(), data["title"])
	})

	suite.Run("InvalidID_BadRequest", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes/not-a-uuid", suite.ownerID)

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
	})

	suite.Run("UnknownRecipe_NotFound", func() {
		// Arrange
		suite.SetupTest()
		recipeID := uuid.New()
		suite.cache.On("Get", mock.Anything, mock.Anything).Return([]byte(nil), nil)
		suite.repo.On("FindByID", mock.Anything, recipeID).Return((*recipe.Recipe)(nil), recipe.ErrRecipeNotFound)

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/recipes/"+recipeID.String(), suite.ownerID)

		// Assert
		suite.Equal(http.StatusNotFound, recorder.Code)
	})
}

func (suite *RecipeHandlersTestSuite) TestDeleteRecipe() {
	suite.Run("OwnerDeletes", func() {
		// Arrange
		suite.SetupTest()
		entity := suite.factory.Recipe(suite.ownerID)
		suite.repo.On("FindByID", mock.Anything, entity.ID()).Return(entity, nil)
		suite.repo.On("Delete", mock.Anything, entity.ID()).Return(nil)
		suite.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)

		// Act
		recorder := suite.do(http.MethodDelete, "/api/v1/recipes/"+entity.ID().String(), suite.ownerID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		suite.Equal(true, suite.decode(recorder)["success"])
	})

	suite.Run("ForeignRecipe_NotFound", func() {
		// Arrange
		suite.SetupTest()
		entity := suite.factory.Recipe(uuid.New())
		suite.repo.On("FindByID", mock.Anything, entity.ID()).Return(entity, nil)

		// Act
		recorder := suite.do(http.MethodDelete, "/api/v1/recipes/"+entity.ID().String(), suite.ownerID)

		// Assert
		suite.Equal(http.StatusNotFound, recorder.Code)
		suite.repo.AssertNotCalled(suite.T(), "Delete")
	})
}

func TestRecipeHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeHandlersTestSuite))
}
