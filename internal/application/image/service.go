// Package image provides the application layer for dish photo
// generation and best-effort attachment to persisted recipes.
package image

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	"github.com/panmaat/backend/internal/ports/inbound"
	"github.com/panmaat/backend/internal/ports/outbound"
	"github.com/panmaat/backend/pkg/errors"
)

// Service implements the image use cases
type Service struct {
	generator  outbound.ImageGenerator
	storage    outbound.StorageService
	recipeRepo outbound.RecipeRepository
	metrics    *monitoring.MetricsCollector
	logger     *zap.Logger
}

// NewService creates a new image service
func NewService(
	generator outbound.ImageGenerator,
	storage outbound.StorageService,
	recipeRepo outbound.RecipeRepository,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) inbound.ImageService {
	return &Service{
		generator:  generator,
		storage:    storage,
		recipeRepo: recipeRepo,
		metrics:    metrics,
		logger:     logger.Named("image-service"),
	}
}

// GenerateImage produces a dish photo and returns its base64 payload.
// This backs the standalone image endpoint; nothing is stored.
func (s *Service) GenerateImage(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", errors.NewValidationError("title is required")
	}

	payload, err := s.generator.GenerateImage(ctx, title)
	if err != nil {
		switch {
		case stderrors.Is(err, generation.ErrEmptyResponse):
			return "", errors.NewGenerationEmptyError().WithCause(err)
		case stderrors.Is(err, generation.ErrParseFailed):
			return "", errors.NewGenerationParseError(err)
		default:
			return "", errors.NewGenerationUnavailableError(err)
		}
	}

	return payload, nil
}

// Attach generates a photo for a persisted recipe, uploads it and
// stores the resulting URL on the recipe. Every failure is swallowed
// after logging: image attachment never breaks a confirmed recipe.
func (s *Service) Attach(ctx context.Context, recipeID uuid.UUID, title string) (string, bool) {
	payload, err := s.generator.GenerateImage(ctx, title)
	if err != nil {
		return s.attachFailed(recipeID, "generate image", err)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return s.attachFailed(recipeID, "decode image payload", err)
	}

	key := fmt.Sprintf("%s.png", recipeID)
	url, err := s.storage.Upload(ctx, key, data, "image/png")
	if err != nil {
		return s.attachFailed(recipeID, "upload image", err)
	}

	if err := s.recipeRepo.SetImageURL(ctx, recipeID, url); err != nil {
		return s.attachFailed(recipeID, "store image url", err)
	}

	s.metrics.RecordImageAttachment(true)
	s.logger.Info("image attached",
		zap.String("recipe_id", recipeID.String()),
		zap.String("url", url),
	)

	return url, true
}

func (s *Service) attachFailed(recipeID uuid.UUID, step string, err error) (string, bool) {
	s.metrics.RecordImageAttachment(false)
	s.logger.Warn("image attachment skipped",
		zap.String("recipe_id", recipeID.String()),
		zap.String("step", step),
		zap.Error(err),
	)
	return "", false
}
