// Package handlers provides HTTP handlers for generation session endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/infrastructure/http/middleware"
	"github.com/panmaat/backend/internal/ports/inbound"
)

// SessionHandlers handles the authenticated generation session workflow
type SessionHandlers struct {
	generationService inbound.GenerationService
	validate          *validator.Validate
	logger            *zap.Logger
}

// NewSessionHandlers creates a new session handlers instance
func NewSessionHandlers(
	generationService inbound.GenerationService,
	logger *zap.Logger,
) *SessionHandlers {
	return &SessionHandlers{
		generationService: generationService,
		validate:          validator.New(),
		logger:            logger,
	}
}

// StartSessionRequest opens a new generation session
type StartSessionRequest struct {
	Ingredients string `json:"ingredients" validate:"required"`
	Servings    int    `json:"servings,omitempty" validate:"omitempty,min=1,max=20"`
	Category    string `json:"category,omitempty"`
}

// StartSession handles POST /api/v1/sessions
func (h *SessionHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Ingredients are required")
		return
	}

	session, err := h.generationService.StartSession(r.Context(), inbound.StartSessionCommand{
		UserID:      userID,
		Ingredients: req.Ingredients,
		Servings:    req.Servings,
		Category:    recipe.ParseCategory(req.Category),
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    session,
		Message: "Generation session started",
	})
}

// GetSession handles GET /api/v1/sessions/{sessionID}
func (h *SessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	session, err := h.generationService.GetSession(r.Context(), sessionID, userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    session,
	})
}

// Regenerate handles POST /api/v1/sessions/{sessionID}/regenerate
func (h *SessionHandlers) Regenerate(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	session, err := h.generationService.Regenerate(r.Context(), sessionID, userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    session,
		Message: "New variation generated",
	})
}

// Confirm handles POST /api/v1/sessions/{sessionID}/confirm
func (h *SessionHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	savedRecipe, err := h.generationService.Confirm(r.Context(), sessionID, userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    savedRecipe,
		Message: "Recipe saved",
	})
}

// Abandon handles DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandlers) Abandon(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionScope(w, r)
	if !ok {
		return
	}

	if err := h.generationService.Abandon(r.Context(), sessionID, userID); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Message: "Session abandoned",
	})
}

// sessionScope resolves the authenticated user and the session path parameter
func (h *SessionHandlers) sessionScope(w http.ResponseWriter, r *http.Request) (userID, sessionID uuid.UUID, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		writeErrorJSON(w, h.logger, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErrorJSON(w, h.logger, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, sessionID, true
}
