// Package generation provides the application layer for the
// ingredient-to-recipe workflow: stateless generation, bounded
// regeneration sessions and confirm-time persistence.
package generation

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/domain/shared"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	"github.com/panmaat/backend/internal/ports/inbound"
	"github.com/panmaat/backend/internal/ports/outbound"
	"github.com/panmaat/backend/pkg/errors"
)

// ErrBusy is returned when a session already has an operation in
// flight. The caller retries after the running call settles.
var ErrBusy = stderrors.New("session has an operation in flight")

// Service implements the generation use cases
type Service struct {
	generator   outbound.RecipeGenerator
	recipeRepo  outbound.RecipeRepository
	images      inbound.ImageService
	store       *Store
	metrics     *monitoring.MetricsCollector
	maxAttempts int
	logger      *zap.Logger
}

// NewService creates a new generation service
func NewService(
	generator outbound.RecipeGenerator,
	recipeRepo outbound.RecipeRepository,
	images inbound.ImageService,
	store *Store,
	metrics *monitoring.MetricsCollector,
	maxAttempts int,
	logger *zap.Logger,
) inbound.GenerationService {
	if maxAttempts <= 0 {
		maxAttempts = generation.DefaultMaxAttempts
	}
	return &Service{
		generator:   generator,
		recipeRepo:  recipeRepo,
		images:      images,
		store:       store,
		metrics:     metrics,
		maxAttempts: maxAttempts,
		logger:      logger.Named("generation-service"),
	}
}

// GenerateOnce produces a single candidate without opening a session.
func (s *Service) GenerateOnce(ctx context.Context, cmd inbound.GenerateCommand) (*inbound.CandidateDTO, error) {
	ingredients := generation.CleanIngredients(cmd.Ingredients)
	if len(ingredients) == 0 {
		return nil, errors.NewValidationError("at least one ingredient is required")
	}

	category := cmd.Category
	if !category.Valid() {
		category = recipe.DefaultCategory
	}
	servings := cmd.Servings
	if servings <= 0 {
		servings = recipe.DefaultServings
	}

	req := generation.Request{
		Ingredients: ingredients,
		Servings:    servings,
		Category:    category,
		Variation:   cmd.Variation,
	}

	candidate, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return inbound.NewCandidateDTO(candidate), nil
}

// StartSession opens a session and produces its first candidate.
// The session is only registered once a candidate landed, so a failed
// first generation leaves nothing behind.
func (s *Service) StartSession(ctx context.Context, cmd inbound.StartSessionCommand) (*inbound.SessionDTO, error) {
	session, err := generation.NewSession(cmd.UserID, cmd.Ingredients, cmd.Servings, cmd.Category, s.maxAttempts)
	if err != nil {
		if stderrors.Is(err, generation.ErrNoIngredients) {
			return nil, errors.NewValidationError("at least one ingredient is required")
		}
		return nil, errors.Wrap(err, "failed to start session")
	}

	req, err := session.FirstRequest()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build first request")
	}

	candidate, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := session.AcceptFirst(candidate); err != nil {
		return nil, errors.Wrap(err, "failed to accept candidate")
	}
	s.drainEvents(session.Events())

	s.store.Put(session)
	s.metrics.RecordSessionStarted()
	s.metrics.SetLiveSessions(s.store.Len())

	s.logger.Info("generation session started",
		zap.String("session_id", session.ID().String()),
		zap.Strings("ingredients", session.OriginalIngredients()),
	)

	return sessionToDTO(session), nil
}

// GetSession returns session progress for its owner.
func (s *Service) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*inbound.SessionDTO, error) {
	session, release, err := s.acquire(sessionID, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	return sessionToDTO(session), nil
}

// Regenerate replaces the held candidate with a variation. The attempt
// bound is checked before anything leaves the process, and a failed
// provider call keeps the current candidate and attempt count.
func (s *Service) Regenerate(ctx context.Context, sessionID, userID uuid.UUID) (*inbound.SessionDTO, error) {
	session, release, err := s.acquire(sessionID, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := session.BeginRegeneration()
	if err != nil {
		return nil, s.mapSessionError(session, err)
	}

	candidate, err := s.generate(ctx, req)
	if err != nil {
		if rollbackErr := session.FailRegeneration(); rollbackErr != nil {
			s.logger.Error("failed to roll back regeneration",
				zap.String("session_id", sessionID.String()),
				zap.Error(rollbackErr),
			)
		}
		return nil, err
	}

	if err := session.CompleteRegeneration(candidate); err != nil {
		return nil, errors.Wrap(err, "failed to accept candidate")
	}
	s.drainEvents(session.Events())

	s.logger.Info("candidate regenerated",
		zap.String("session_id", sessionID.String()),
		zap.Int("attempt", session.Attempt()),
		zap.Int("max_attempts", session.MaxAttempts()),
	)

	return sessionToDTO(session), nil
}

// Confirm persists the held candidate as a recipe owned by the caller
// and then attaches a generated photo best-effort. A persistence
// failure leaves the session and its candidate intact for a retry.
func (s *Service) Confirm(ctx context.Context, sessionID, userID uuid.UUID) (*inbound.RecipeDTO, error) {
	if userID == uuid.Nil {
		return nil, errors.NewUnauthorizedError("")
	}

	session, release, err := s.acquire(sessionID, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	candidate, err := session.Confirmable()
	if err != nil {
		return nil, s.mapSessionError(session, err)
	}

	entity, err := recipe.New(
		userID,
		candidate.Title,
		candidate.Ingredients,
		candidate.Steps,
		candidate.CookingTime,
		candidate.Servings,
		candidate.Category,
	)
	if err != nil {
		return nil, errors.Wrap(err, "candidate does not form a valid recipe")
	}

	// Durability boundary: the candidate survives in the session until
	// this insert succeeds.
	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		s.logger.Error("failed to persist confirmed recipe",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return nil, errors.NewDatabaseError("create recipe", err)
	}
	s.drainEvents(entity.Events())

	if err := session.MarkConfirmed(entity.ID()); err != nil {
		s.logger.Error("failed to close confirmed session",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}
	s.drainEvents(session.Events())
	s.store.Remove(sessionID)

	s.metrics.RecordRecipeConfirmed()
	s.metrics.RecordSessionClosed("confirmed")
	s.metrics.SetLiveSessions(s.store.Len())

	dto := recipeToDTO(entity)

	// Best-effort: a recipe without a photo is still a recipe.
	if url, ok := s.images.Attach(ctx, entity.ID(), entity.Title()); ok {
		if err := entity.AttachImage(url); err != nil {
			s.logger.Error("failed to attach image to recipe",
				zap.String("recipe_id", entity.ID().String()),
				zap.Error(err),
			)
		} else {
			s.drainEvents(entity.Events())
			dto.ImageURL = entity.ImageURL()
		}
	}

	s.logger.Info("recipe confirmed",
		zap.String("recipe_id", entity.ID().String()),
		zap.String("title", entity.Title()),
		zap.Bool("has_image", dto.ImageURL != ""),
	)

	return dto, nil
}

// Abandon discards a session and whatever candidate it holds.
func (s *Service) Abandon(ctx context.Context, sessionID, userID uuid.UUID) error {
	session, release, err := s.acquire(sessionID, userID)
	if err != nil {
		return err
	}
	defer release()

	if err := session.Abandon(); err != nil {
		return s.mapSessionError(session, err)
	}
	s.drainEvents(session.Events())
	s.store.Remove(sessionID)

	s.metrics.RecordSessionClosed("abandoned")
	s.metrics.SetLiveSessions(s.store.Len())

	s.logger.Info("generation session abandoned",
		zap.String("session_id", sessionID.String()),
	)

	return nil
}

// Sweep drops idle and closed sessions. The container runs this
// periodically.
func (s *Service) Sweep() {
	if removed := s.store.Sweep(); removed > 0 {
		s.logger.Debug("swept generation sessions", zap.Int("removed", removed))
	}
	s.metrics.SetLiveSessions(s.store.Len())
}

// generate performs one provider call with metrics and error mapping.
func (s *Service) generate(ctx context.Context, req generation.Request) (generation.Candidate, error) {
	kind := "first"
	if req.Variation {
		kind = "variation"
	}

	start := time.Now()
	candidate, err := s.generator.GenerateRecipe(ctx, req)
	duration := time.Since(start)

	switch {
	case err == nil:
		s.metrics.RecordGeneration(kind, monitoring.OutcomeOK, duration)
		return candidate, nil
	case stderrors.Is(err, generation.ErrEmptyResponse):
		s.metrics.RecordGeneration(kind, monitoring.OutcomeEmpty, duration)
		return generation.Candidate{}, errors.NewGenerationEmptyError().WithCause(err)
	case stderrors.Is(err, generation.ErrParseFailed):
		s.metrics.RecordGeneration(kind, monitoring.OutcomeParse, duration)
		return generation.Candidate{}, errors.NewGenerationParseError(err)
	default:
		s.metrics.RecordGeneration(kind, monitoring.OutcomeUnavailable, duration)
		return generation.Candidate{}, errors.NewGenerationUnavailableError(err)
	}
}

// acquire looks up the session, latches it and checks ownership.
// Sessions owned by someone else read as not found.
func (s *Service) acquire(sessionID, userID uuid.UUID) (*generation.Session, func(), error) {
	session, release, err := s.store.Acquire(sessionID)
	if err != nil {
		if stderrors.Is(err, ErrBusy) {
			return nil, nil, errors.NewSessionBusyError(sessionID.String())
		}
		return nil, nil, errors.NewSessionNotFoundError(sessionID.String())
	}

	if session.OwnerID() != userID {
		release()
		return nil, nil, errors.NewSessionNotFoundError(sessionID.String())
	}

	return session, release, nil
}

// mapSessionError translates domain session errors to app errors.
func (s *Service) mapSessionError(session *generation.Session, err error) error {
	switch {
	case stderrors.Is(err, generation.ErrAttemptsExhausted):
		return errors.NewAttemptsExhaustedError(session.MaxAttempts())
	case stderrors.Is(err, generation.ErrSessionClosed):
		return errors.NewConflictError("session is already closed")
	case stderrors.Is(err, generation.ErrNoCandidate), stderrors.Is(err, generation.ErrInvalidTransition):
		return errors.NewConflictError("session holds no confirmable candidate")
	default:
		return errors.Wrap(err, "session operation failed")
	}
}

// drainEvents logs domain events. There is no broker in this service,
// the events exist for observability.
func (s *Service) drainEvents(events []shared.DomainEvent) {
	for _, event := range events {
		s.logger.Debug("domain event", zap.String("event", event.EventName()))
	}
}

// sessionToDTO maps a session to its wire form.
func sessionToDTO(session *generation.Session) *inbound.SessionDTO {
	dto := &inbound.SessionDTO{
		ID:          session.ID(),
		State:       string(session.State()),
		Attempt:     session.Attempt(),
		MaxAttempts: session.MaxAttempts(),
		CanRetry:    session.CanRegenerate(),
		CreatedAt:   session.CreatedAt().UTC().Format(time.RFC3339),
	}
	if c := session.Current(); c != nil {
		dto.Candidate = inbound.NewCandidateDTO(*c)
	}
	return dto
}

// recipeToDTO maps a recipe aggregate to its wire form.
func recipeToDTO(r *recipe.Recipe) *inbound.RecipeDTO {
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
