// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/infrastructure/config"
	"github.com/panmaat/backend/internal/infrastructure/http/handlers"
	"github.com/panmaat/backend/internal/infrastructure/http/middleware"
	"github.com/panmaat/backend/internal/infrastructure/monitoring"
	"github.com/panmaat/backend/internal/infrastructure/security"
	"github.com/panmaat/backend/internal/ports/inbound"
)

// APIServer represents the JSON API HTTP server
type APIServer struct {
	config            *config.Config
	logger            *zap.Logger
	server            *http.Server
	router            *chi.Mux
	generationService inbound.GenerationService
	imageService      inbound.ImageService
	recipeService     inbound.RecipeService
	tokenService      *security.TokenService
	metrics           *monitoring.MetricsCollector
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	generationService inbound.GenerationService,
	imageService inbound.ImageService,
	recipeService inbound.RecipeService,
	tokenService *security.TokenService,
	metrics *monitoring.MetricsCollector,
) *APIServer {
	server := &APIServer{
		config:            cfg,
		logger:            log,
		generationService: generationService,
		imageService:      imageService,
		recipeService:     recipeService,
		tokenService:      tokenService,
		metrics:           metrics,
	}

	readTimeout := cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		// Generation calls can take most of a minute upstream
		writeTimeout = 3 * time.Minute
	}
	idleTimeout := cfg.Server.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS())
	}
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	healthH := handlers.NewHealthHandlers(s.config.App.Name, s.config.App.Version, s.logger)
	r.Get("/health", healthH.HealthCheck)

	if s.config.Monitoring.EnableMetrics {
		path := s.config.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	generationH := handlers.NewGenerationHandlers(s.generationService, s.imageService, s.logger)
	sessionH := handlers.NewSessionHandlers(s.generationService, s.logger)
	recipeH := handlers.NewRecipeHandlers(s.recipeService, s.logger)

	var rateLimit func(next http.Handler) http.Handler
	if s.config.RateLimit.Enable {
		limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize)
		rateLimit = limiter.Middleware()
	}

	// Stateless generation endpoints, public contract
	r.Group(func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Post("/generate-recipe", generationH.GenerateRecipe)
		r.Post("/generate-image", generationH.GenerateImage)
	})

	// Session workflow, authenticated
	r.Route("/sessions", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.tokenService, s.logger))
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Post("/", sessionH.StartSession)
		r.Get("/{sessionID}", sessionH.GetSession)
		r.Post("/{sessionID}/regenerate", sessionH.Regenerate)
		r.Post("/{sessionID}/confirm", sessionH.Confirm)
		r.Delete("/{sessionID}", sessionH.Abandon)
	})

	// Saved recipes, authenticated
	r.Route("/recipes", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.tokenService, s.logger))
		r.Post("/", recipeH.CreateRecipe)
		r.Get("/", recipeH.ListRecipes)
		r.Get("/{recipeID}", recipeH.GetRecipe)
		r.Put("/{recipeID}", recipeH.UpdateRecipe)
		r.Delete("/{recipeID}", recipeH.DeleteRecipe)
	})
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Router returns the configured router, used by tests
func (s *APIServer) Router() *chi.Mux {
	return s.router
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
