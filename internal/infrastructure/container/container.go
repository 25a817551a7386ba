// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	generationapp "github.com/panmaat/backend/internal/application/generation"
	imageapp "github.com/panmaat/backend/internal/application/image"
	recipeapp "github.com/panmaat/backend/internal/application/recipe"
	"github.com/panmaat/backend/internal/infrastructure/ai/openai"
	"github.com/panmaat/backend/internal/infrastructure/config"
	"github.com/panmaat/backend/internal/infrastructure/http/apiserver"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	gormrepo "github.com/panmaat/backend/internal/infrastructure/persistence/gorm"
	"github.com/panmaat/backend/internal/infrastructure/persistence/memory"
	redisrepo "github.com/panmaat/backend/internal/infrastructure/persistence/redis"
	"github.com/panmaat/backend/internal/infrastructure/security"
	"github.com/panmaat/backend/internal/infrastructure/storage/s3"
	"github.com/panmaat/backend/internal/ports/inbound"
	"github.com/panmaat/backend/internal/ports/outbound"
	"github.com/panmaat/backend/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	StorageModule,
	GeneratorModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM database connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormrepo.SetupDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}

		log.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
		)

		return db, nil
	},
)

// CacheModule provides caching. It falls back to the in-memory cache when
// Redis is not configured so local development needs no extra services.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.Redis.Host == "" {
			log.Info("Redis not configured, using in-memory cache")
			return memory.NewCacheRepository(), nil
		}

		client, err := redisrepo.NewClient(cfg)
		if err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
			return memory.NewCacheRepository(), nil
		}

		log.Info("Connected to Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)

		return redisrepo.NewCacheRepository(client, cfg.Redis.CacheTTL, log), nil
	},
)

// StorageModule provides object storage for recipe images
var StorageModule = fx.Provide(
	s3.NewStorageService,
)

// GeneratorModule provides the AI client for text and image generation
var GeneratorModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *openai.Client {
		return openai.NewClient(openai.Config{
			BaseURL:            cfg.AI.BaseURL,
			APIKey:             cfg.AI.APIKey,
			ChatModel:          cfg.AI.ChatModel,
			ImageModel:         cfg.AI.ImageModel,
			MaxTokens:          cfg.AI.MaxTokens,
			Timeout:            cfg.AI.Timeout,
			ImageTimeout:       cfg.AI.ImageTimeout,
			FirstTemperature:   cfg.AI.FirstTemperature,
			VariantTemperature: cfg.AI.VariantTemperature,
		}, log)
	},
	func(client *openai.Client) outbound.RecipeGenerator { return client },
	func(client *openai.Client) outbound.ImageGenerator { return client },
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewRecipeRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	monitoring.NewMetricsCollector,
	security.NewTokenService,

	func(cfg *config.Config) *generationapp.Store {
		return generationapp.NewStore(cfg.AI.SessionTTL)
	},

	imageapp.NewService,

	func(
		generator outbound.RecipeGenerator,
		recipeRepo outbound.RecipeRepository,
		images inbound.ImageService,
		store *generationapp.Store,
		metrics *monitoring.MetricsCollector,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.GenerationService {
		return generationapp.NewService(generator, recipeRepo, images, store, metrics, cfg.AI.MaxAttempts, log)
	},

	func(
		recipeRepo outbound.RecipeRepository,
		cache outbound.CacheRepository,
		storage outbound.StorageService,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipeapp.NewService(recipeRepo, cache, storage, cfg.Redis.CacheTTL, log)
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	generationService inbound.GenerationService,
	server *apiserver.APIServer,
) {
	sweepDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("app", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				ticker := time.NewTicker(10 * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						generationService.Sweep()
					case <-sweepDone:
						return
					}
				}
			}()

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			close(sweepDone)

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
