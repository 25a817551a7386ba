package generation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	app "github.com/panmaat/backend/internal/application/generation"
	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	"github.com/panmaat/backend/internal/ports/inbound"
	apperrors "github.com/panmaat/backend/pkg/errors"
	"github.com/panmaat/backend/test/testutils"
)

// ServiceTestSuite exercises the generation use cases against mocked
// outbound ports.
type ServiceTestSuite struct {
	suite.Suite
	generator *testutils.MockRecipeGenerator
	repo      *testutils.MockRecipeRepository
	images    *testutils.MockImageService
	store     *app.Store
	service   inbound.GenerationService
	factory   *testutils.CandidateFactory
	userID    uuid.UUID
	ctx       context.Context
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.generator = testutils.NewMockRecipeGenerator()
	suite.repo = testutils.NewMockRecipeRepository()
	suite.images = testutils.NewMockImageService()
	suite.store = app.NewStore(time.Hour)
	suite.service = app.NewService(
		suite.generator,
		suite.repo,
		suite.images,
		suite.store,
		monitoring.NewMetricsCollector(),
		3,
		zap.NewNop(),
	)
	suite.factory = testutils.NewCandidateFactory(42)
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

// startSession opens a session with a candidate already landed.
func (suite *ServiceTestSuite) startSession() *inbound.SessionDTO {
	candidate := suite.factory.Candidate(recipe.CategoryDinner)
	suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(candidate, nil).Once()

	dto, err := suite.service.StartSession(suite.ctx, inbound.StartSessionCommand{
		UserID:      suite.userID,
		Ingredients: "ei, spinazie",
		Servings:    2,
		Category:    recipe.CategoryDinner,
	})
	suite.Require().NoError(err)
	return dto
}

func (suite *ServiceTestSuite) TestGenerateOnce() {
	suite.Run("ReturnsCandidate", func() {
		// Arrange
		suite.SetupTest()
		candidate := suite.factory.Candidate(recipe.CategoryLunch)
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(candidate, nil)

		// Act
		dto, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"ei", "spinazie"},
			Servings:    4,
			Category:    recipe.CategoryLunch,
		})

		// Assert
		suite.NoError(err)
		suite.Equal(candidate.Title, dto.Title)
		suite.Equal(recipe.CategoryLunch.String(), dto.Category)

		req := suite.generator.Requests()[0]
		suite.Equal([]string{"ei", "spinazie"}, req.Ingredients)
		suite.Equal(4, req.Servings)
		suite.False(req.Variation)
	})

	suite.Run("EmptyIngredients_NoUpstreamCall", func() {
		// Arrange
		suite.SetupTest()

		// Act
		dto, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"  ", ""},
		})

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeValidationFailed))
		suite.Zero(suite.generator.CallCount())
	})

	suite.Run("InvalidCategory_FallsBackToDefault", func() {
		// Arrange
		suite.SetupTest()
		candidate := suite.factory.Candidate(recipe.DefaultCategory)
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(candidate, nil)

		// Act
		_, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"ei"},
			Category:    recipe.Category("brunch"),
		})

		// Assert
		suite.NoError(err)
		suite.Equal(recipe.DefaultCategory, suite.generator.Requests()[0].Category)
	})

	suite.Run("ProviderUnavailable_MapsError", func() {
		// Arrange
		suite.SetupTest()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(generation.Candidate{}, generation.ErrGenerationUnavailable)

		// Act
		dto, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"ei"},
		})

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeGenerationUnavailable))
	})

	suite.Run("EmptyResponse_MapsError", func() {
		// Arrange
		suite.SetupTest()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(generation.Candidate{}, generation.ErrEmptyResponse)

		// Act
		_, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"ei"},
		})

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeGenerationEmpty))
	})

	suite.Run("ParseFailure_MapsError", func() {
		// Arrange
		suite.SetupTest()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(generation.Candidate{}, generation.ErrParseFailed)

		// Act
		_, err := suite.service.GenerateOnce(suite.ctx, inbound.GenerateCommand{
			Ingredients: []string{"ei"},
		})

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeGenerationParse))
	})
}

func (suite *ServiceTestSuite) TestStartSession() {
	suite.Run("RegistersSessionWithCandidate", func() {
		// Arrange
		suite.SetupTest()

		// Act
		dto := suite.startSession()

		// Assert
		suite.Equal("has_candidate", dto.State)
		suite.Equal(1, dto.Attempt)
		suite.Equal(3, dto.MaxAttempts)
		suite.True(dto.CanRetry)
		suite.NotNil(dto.Candidate)
		suite.Equal(1, suite.store.Len())
	})

	suite.Run("BlankIngredients_NoUpstreamCall", func() {
		// Arrange
		suite.SetupTest()

		// Act
		dto, err := suite.service.StartSession(suite.ctx, inbound.StartSessionCommand{
			UserID:      suite.userID,
			Ingredients: " ,  , ",
		})

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeValidationFailed))
		suite.Zero(suite.generator.CallCount())
		suite.Zero(suite.store.Len())
	})

	suite.Run("FailedFirstGeneration_LeavesNoSession", func() {
		// Arrange
		suite.SetupTest()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(generation.Candidate{}, generation.ErrGenerationUnavailable)

		// Act
		dto, err := suite.service.StartSession(suite.ctx, inbound.StartSessionCommand{
			UserID:      suite.userID,
			Ingredients: "ei, spinazie",
		})

		// Assert
		suite.Nil(dto)
		suite.Error(err)
		suite.Zero(suite.store.Len())
	})
}

func (suite *ServiceTestSuite) TestGetSession() {
	suite.Run("OwnerSeesProgress", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		dto, err := suite.service.GetSession(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.NoError(err)
		suite.Equal(started.ID, dto.ID)
		suite.Equal("has_candidate", dto.State)
	})

	suite.Run("ForeignUser_ReadsAsNotFound", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		dto, err := suite.service.GetSession(suite.ctx, started.ID, uuid.New())

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeSessionNotFound))
	})

	suite.Run("UnknownSession_NotFound", func() {
		// Arrange
		suite.SetupTest()

		// Act
		_, err := suite.service.GetSession(suite.ctx, uuid.New(), suite.userID)

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeSessionNotFound))
	})
}

func (suite *ServiceTestSuite) TestRegenerate() {
	suite.Run("UsesOriginalIngredientsWithVariation", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		replacement := suite.factory.Candidate(recipe.CategoryDinner)
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(replacement, nil).Once()

		// Act
		dto, err := suite.service.Regenerate(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.NoError(err)
		suite.Equal(2, dto.Attempt)
		suite.Equal(replacement.Title, dto.Candidate.Title)

		// The second request repeats the session's opening ingredients,
		// not whatever the previous candidate listed.
		req := suite.generator.Requests()[1]
		suite.Equal([]string{"ei", "spinazie"}, req.Ingredients)
		suite.True(req.Variation)
	})

	suite.Run("ProviderFailure_KeepsCandidateAndAttempt", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		heldTitle := started.Candidate.Title
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(generation.Candidate{}, generation.ErrGenerationUnavailable).Once()

		// Act
		dto, err := suite.service.Regenerate(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeGenerationUnavailable))

		current, getErr := suite.service.GetSession(suite.ctx, started.ID, suite.userID)
		suite.Require().NoError(getErr)
		suite.Equal(1, current.Attempt)
		suite.Equal(heldTitle, current.Candidate.Title)
		suite.True(current.CanRetry)
	})

	suite.Run("BoundRefusedBeforeUpstreamCall", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		suite.generator.On("GenerateRecipe", mock.Anything, mock.Anything).
			Return(suite.factory.Candidate(recipe.CategoryDinner), nil).Twice()

		_, err := suite.service.Regenerate(suite.ctx, started.ID, suite.userID)
		suite.Require().NoError(err)
		_, err = suite.service.Regenerate(suite.ctx, started.ID, suite.userID)
		suite.Require().NoError(err)
		callsBefore := suite.generator.CallCount()

		// Act
		dto, err := suite.service.Regenerate(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeAttemptsExhausted))
		suite.Equal(callsBefore, suite.generator.CallCount())

		current, getErr := suite.service.GetSession(suite.ctx, started.ID, suite.userID)
		suite.Require().NoError(getErr)
		suite.Equal(3, current.Attempt)
		suite.False(current.CanRetry)
	})

	suite.Run("ForeignUser_ReadsAsNotFound", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		_, err := suite.service.Regenerate(suite.ctx, started.ID, uuid.New())

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeSessionNotFound))
		suite.Equal(1, suite.generator.CallCount())
	})
}

func (suite *ServiceTestSuite) TestConfirm() {
	suite.Run("PersistsRecipeAndAttachesImage", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		suite.images.On("Attach", mock.Anything, mock.Anything, started.Candidate.Title).
			Return("https://img.example/dish.png", true)

		// Act
		dto, err := suite.service.Confirm(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.NoError(err)
		suite.Equal(started.Candidate.Title, dto.Title)
		suite.Equal("https://img.example/dish.png", dto.ImageURL)
		suite.Equal(1, suite.repo.StoredCount())
		suite.Zero(suite.store.Len())

		stored, ok := suite.repo.Stored(dto.ID)
		suite.Require().True(ok)
		suite.Equal(suite.userID, stored.OwnerID())
		suite.Equal("https://img.example/dish.png", stored.ImageURL())
		suite.True(stored.HasImage())
	})

	suite.Run("ImageFailure_RecipeStillConfirmed", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		suite.images.On("Attach", mock.Anything, mock.Anything, mock.Anything).Return("", false)

		// Act
		dto, err := suite.service.Confirm(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.NoError(err)
		suite.Empty(dto.ImageURL)
		suite.Equal(1, suite.repo.StoredCount())
		suite.Zero(suite.store.Len())
	})

	suite.Run("PersistenceFailure_SessionSurvivesForRetry", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		suite.repo.On("Create", mock.Anything, mock.Anything).
			Return(apperrors.NewDatabaseError("insert", context.DeadlineExceeded)).Once()

		// Act
		dto, err := suite.service.Confirm(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.Nil(dto)
		suite.True(apperrors.Is(err, apperrors.CodeDatabaseError))
		suite.Equal(1, suite.store.Len())

		// The candidate is still held, so a retry can succeed.
		suite.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		suite.images.On("Attach", mock.Anything, mock.Anything, mock.Anything).Return("", false)
		retried, retryErr := suite.service.Confirm(suite.ctx, started.ID, suite.userID)
		suite.NoError(retryErr)
		suite.Equal(started.Candidate.Title, retried.Title)
	})

	suite.Run("AnonymousCaller_Unauthorized", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		_, err := suite.service.Confirm(suite.ctx, started.ID, uuid.Nil)

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeUnauthorized))
		suite.Zero(suite.repo.StoredCount())
	})

	suite.Run("ForeignUser_ReadsAsNotFound", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		_, err := suite.service.Confirm(suite.ctx, started.ID, uuid.New())

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeSessionNotFound))
		suite.Zero(suite.repo.StoredCount())
	})
}

func (suite *ServiceTestSuite) TestAbandon() {
	suite.Run("RemovesSession", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()

		// Act
		err := suite.service.Abandon(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.NoError(err)
		suite.Zero(suite.store.Len())
	})

	suite.Run("Twice_SecondReadsAsNotFound", func() {
		// Arrange
		suite.SetupTest()
		started := suite.startSession()
		suite.Require().NoError(suite.service.Abandon(suite.ctx, started.ID, suite.userID))

		// Act
		err := suite.service.Abandon(suite.ctx, started.ID, suite.userID)

		// Assert
		suite.True(apperrors.Is(err, apperrors.CodeSessionNotFound))
	})
}

func (suite *ServiceTestSuite) TestSweep() {
	suite.Run("DropsExpiredSessions", func() {
		// Arrange
		suite.SetupTest()
		suite.store = app.NewStore(time.Millisecond)
		suite.service = app.NewService(
			suite.generator,
			suite.repo,
			suite.images,
			suite.store,
			monitoring.NewMetricsCollector(),
			3,
			zap.NewNop(),
		)
		suite.startSession()
		time.Sleep(5 * time.Millisecond)

		// Act
		suite.service.Sweep()

		// Assert
		suite.Zero(suite.store.Len())
	})

	suite.Run("KeepsFreshSessions", func() {
		// Arrange
		suite.SetupTest()
		suite.startSession()

		// Act
		suite.service.Sweep()

		// Assert
		suite.Equal(1, suite.store.Len())
	})
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
