package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	generationapp "github.com/panmaat/backend/internal/application/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/infrastructure/http/handlers"
	"github.com/panmaat/backend/internal/infrastructure/http/middleware"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	"github.com/panmaat/backend/test/testutils"
)

// SessionHandlersTestSuite drives the session workflow over HTTP with a
// real generation service behind the handlers.
type SessionHandlersTestSuite struct {
	suite.Suite
	generator *testutils.MockRecipeGenerator
	repo      *testutils.MockRecipeRepository
	images    *testutils.MockImageService
	router    *chi.Mux
	factory   *testutils.CandidateFactory
	userID    uuid.UUID
}

func (suite *SessionHandlersTestSuite) SetupTest() {
	suite.generator = testutils.NewMockRecipeGenerator()
	suite.repo = testutils.NewMockRecipeRepository()
	suite.images = testutils.NewMockImageService()
	suite.factory = testutils.NewCandidateFactory(42)
	suite.userID = uuid.New()

	generationService := generationapp.NewService(
		suite.generator,
		suite.repo,
		suite.images,
		generationapp.NewStore(time.Hour),
		monitoring.NewMetricsCollector(),
		3,
		zap.NewNop(),
	)

	h := handlers.NewSessionHandlers(generationService, zap.NewNop())
	suite.router = chi.NewRouter()
	suite.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{sessionID}", h.GetSession)
		r.Post("/{sessionID}/regenerate", h.Regenerate)
		r.Post("/{sessionID}/confirm", h.Confirm)
		r.Delete("/{sessionID}", h.Abandon)
	})
}

// do performs a request as the suite's user unless asUser is uuid.Nil.
func (suite *SessionHandlersTestSuite) do(method, path string, body any, asUser uuid.UUID) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asUser != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), asUser))
	}

	recorder := httptest.NewRecorder()
	suite.router.ServeHTTP(recorder, req)
	return recorder
}

func (suite *SessionHandlersTestSuite) decode(recorder *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// startSession opens a session over HTTP and returns its ID.
func (suite *SessionHandlersTestSuite) startSession() string {
	suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
		Return(suite.factory.Candidate(recipe.CategoryDinner), nil).Once()

	recorder := suite.do(http.MethodPost, "/api/v1/sessions", map[string]any{
		"ingredients": "ei, spinazie",
		"servings":    2,
	}, suite.userID)
	suite.Require().Equal(http.StatusCreated, recorder.Code)

	data := suite.decode(recorder)["data"].(map[string]any)
	return data["id"].(string)
}

func (suite *SessionHandlersTestSuite) TestStartSession() {
	suite.Run("ReturnsSessionWithCandidate", func() {
		// Arrange
		suite.SetupTest()
		candidate := suite.factory.Candidate(recipe.CategoryDinner)
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(candidate, nil)

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions", map[string]any{
			"ingredients": "ei, spinazie",
		}, suite.userID)

		// Assert
		suite.Equal(http.StatusCreated, recorder.Code)
		body := suite.decode(recorder)
		suite.Equal(true, body["success"])

		data := body["data"].(map[string]any)
		suite.Equal("has_candidate", data["state"])
		suite.EqualValues(1, data["attempt"])
		suite.EqualValues(3, data["max_attempts"])
		suite.Equal(true, data["can_retry"])
		suite.Equal(candidate.Title, data["candidate"].(map[string]any)["title"])
	})

	suite.Run("MissingIngredients_BadRequest", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions", map[string]any{}, suite.userID)

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
		suite.Zero(suite.generator.CallCount())
	})

	suite.Run("Unauthenticated_Unauthorized", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions", map[string]any{
			"ingredients": "ei",
		}, uuid.Nil)

		// Assert
		suite.Equal(http.StatusUnauthorized, recorder.Code)
	})
}

func (suite *SessionHandlersTestSuite) TestGetSession() {
	suite.Run("ReturnsProgress", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil, suite.userID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.Equal(sessionID, data["id"])
	})

	suite.Run("InvalidID_BadRequest", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/sessions/not-a-uuid", nil, suite.userID)

		// Assert
		suite.Equal(http.StatusBadRequest, recorder.Code)
	})

	suite.Run("UnknownSession_NotFound", func() {
		// Arrange
		suite.SetupTest()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil, suite.userID)

		// Assert
		suite.Equal(http.StatusNotFound, recorder.Code)
	})

	suite.Run("ForeignSession_NotFound", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()

		// Act
		recorder := suite.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil, uuid.New())

		// Assert
		suite.Equal(http.StatusNotFound, recorder.Code)
	})
}

func (suite *SessionHandlersTestSuite) TestRegenerate() {
	suite.Run("ReplacesCandidate", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()
		replacement := suite.factory.Candidate(recipe.CategoryDinner)
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(replacement, nil).Once()

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/regenerate", nil, suite.userID)

		// Assert
		suite.Equal(http.StatusOK, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.EqualValues(2, data["attempt"])
		suite.Equal(replacement.Title, data["candidate"].(map[string]any)["title"])
	})

	suite.Run("ExhaustedAttempts_Conflict", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(suite.factory.Candidate(recipe.CategoryDinner), nil).Twice()
		for i := 0; i < 2; i++ {
			recorder := suite.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/regenerate", nil, suite.userID)
			suite.Require().Equal(http.StatusOK, recorder.Code)
		}

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/regenerate", nil, suite.userID)

		// Assert
		suite.Equal(http.StatusConflict, recorder.Code)
		suite.Equal(3, suite.generator.CallCount())
	})
}

func (suite *SessionHandlersTestSuite) TestConfirm() {
	suite.Run("SavesRecipe", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		suite.images.On("Attach", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example/dish.png", true)

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/confirm", nil, suite.userID)

		// Assert
		suite.Equal(http.StatusCreated, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.NotEmpty(data["title"])
		suite.Equal("https://img.example/dish.png", data["image_url"])
		suite.Equal(1, suite.repo.StoredCount())

		// The session is gone once confirmed.
		followUp := suite.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil, suite.userID)
		suite.Equal(http.StatusNotFound, followUp.Code)
	})

	suite.Run("ImageFailure_StillSaves", func() {
		// Arrange
		suite.SetupTest()
		sessionID := suite.startSession()
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		suite.images.On("Attach", mock.Anything, mock.Anything, mock.Anything).Return("", false)

		// Act
		recorder := suite.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/confirm", nil, suite.userID)

		// Assert
		suite.Equal(http.StatusCreated, recorder.Code)
		data := suite.decode(recorder)["data"].(map[string]any)
		suite.NotContains(data, "image_url")
	})
}

func (suite *SessionHandlersTestSuite) TestAbandon() {
	// Arrange
	sessionID := suite.startSession()

	// Act
	recorder := suite.do(http.MethodDelete, "/api/v1/sessions/"+sessionID, nil, suite.userID)

	// Assert
	suite.Equal(http.StatusOK, recorder.Code)
	followUp := suite.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil, suite.userID)
	suite.Equal(http.StatusNotFound, followUp.Code)
}

func TestSessionHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlersTestSuite))
}
