// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/panmaat/backend/pkg/errors"
)

// APIResponse represents a standard API response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// HealthHandlers serves liveness probes
type HealthHandlers struct {
	appName string
	version string
	logger  *zap.Logger
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(appName, version string, logger *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		appName: appName,
		version: version,
		logger:  logger,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"app":       h.appName,
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorJSON writes a bare error object, the shape the public endpoints use
func writeErrorJSON(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, map[string]string{"error": message})
}

// writeAppError maps an application error to its HTTP status and error body
func writeAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeErrorJSON(w, logger, appErr.StatusCode(), appErr.Message)
		return
	}
	logger.Error("unhandled error reached HTTP layer",
		zap.String("code", string(apperrors.GetCode(err))),
		zap.Error(err),
	)
	writeErrorJSON(w, logger, http.StatusInternalServerError, "Internal server error")
}

// appValidationError converts request validation failures into the
// structured validation error shape, one entry per failed field.
func appValidationError(err error) *apperrors.AppError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	details := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperrors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("field %s failed on the %s rule", fe.Field(), fe.Tag()),
		})
	}
	return apperrors.NewValidationErrors(details)
}
