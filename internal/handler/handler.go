package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cakery/internal/middleware"
	"cakery/internal/model"
	"cakery/internal/service"

	"github.com/rs/zerolog"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeData writes a success response in the admin {data: ...} envelope.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{"data": data})
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service error onto an HTTP status. Domain errors
// carry their own mapping; anything else is an internal error with no detail
// leaked to the client.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		logger.Warn().
			Str("code", domainErr.Code).
			Str("error", domainErr.Message).
			Msg("request rejected")
		writeJSON(w, statusForCode(domainErr.Code), ErrorResponse{
			Error:  domainErr.Message,
			Fields: domainErr.Fields,
		})
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// statusForCode maps domain error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON, model.ErrCodePriceMismatch, model.ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeAlreadyPaid, model.ErrCodeTerminalStatus, model.ErrCodeIllegalTransition:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// resolveProfile loads the caller's profile from the verified identity,
// provisioning it on first sight. Writes the error response and returns
// false when the caller cannot be resolved.
func resolveProfile(w http.ResponseWriter, r *http.Request, users service.UserService, logger zerolog.Logger) (*model.UserProfile, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", logger)
		return nil, false
	}

	profile, err := users.EnsureProfile(r.Context(), identity.AuthID, identity.Name)
	if err != nil {
		logger.Error().Err(err).Msg("failed to resolve caller profile")
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return nil, false
	}

	return profile, true
}
