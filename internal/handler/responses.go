package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/predictarena/predictarena/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ValidationErrorResponse carries per-field validation failures
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Log the error - we can't write to response at this point since headers are sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	// Write the buffer to the response
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondDomainError sends a JSON error response carrying the machine-readable
// error code alongside the user-facing message
func respondDomainError(w http.ResponseWriter, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	respondJSON(w, status, ErrorResponse{Error: message, Code: string(domain.CodeOf(err))})
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	// Lifecycle messages
	ErrMsgGameNotFoundError      = "Game not found"
	ErrMsgGameNotActiveError     = "Game is not accepting predictions"
	ErrMsgWindowClosedError      = "The prediction window has closed"
	ErrMsgInvalidStakeError      = "Stake is outside the allowed range"
	ErrMsgInvalidOptionError     = "That option does not exist in this game"
	ErrMsgDuplicateError         = "You have already predicted in this game"
	ErrMsgGameFullError          = "Game has reached its participant limit"
	ErrMsgInvalidTransitionError = "Game is not in a state that allows this operation"
	ErrMsgTooEarlyToStartError   = "Game cannot start before its start time"
	ErrMsgTooEarlyToEndError     = "The prediction window has not closed yet"
	ErrMsgTooEarlyToSettleError  = "Settlement time has not been reached yet"
	ErrMsgBadCorrectOptionError  = "The winning option does not exist in this game"
	ErrMsgAlreadySettledError    = "Game has already been settled"
	ErrMsgCannotCancelError      = "Settled games cannot be cancelled"
	ErrMsgConflictError          = "Game was modified concurrently. Please retry."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound, ErrMsgGameNotFoundError
	case errors.Is(err, domain.ErrGameNotActive):
		return http.StatusConflict, ErrMsgGameNotActiveError
	case errors.Is(err, domain.ErrPredictionPeriodEnded):
		return http.StatusConflict, ErrMsgWindowClosedError
	case errors.Is(err, domain.ErrInvalidStakeAmount):
		return http.StatusBadRequest, ErrMsgInvalidStakeError
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest, ErrMsgInvalidOptionError
	case errors.Is(err, domain.ErrDuplicatePrediction):
		return http.StatusConflict, ErrMsgDuplicateError
	case errors.Is(err, domain.ErrMaxParticipants):
		return http.StatusConflict, ErrMsgGameFullError
	case errors.Is(err, domain.ErrInvalidStartTime):
		return http.StatusConflict, ErrMsgTooEarlyToStartError
	case errors.Is(err, domain.ErrEarlyEndAttempt):
		return http.StatusConflict, ErrMsgTooEarlyToEndError
	case errors.Is(err, domain.ErrEarlySettlement):
		return http.StatusConflict, ErrMsgTooEarlyToSettleError
	case errors.Is(err, domain.ErrInvalidCorrectOption):
		return http.StatusBadRequest, ErrMsgBadCorrectOptionError
	case errors.Is(err, domain.ErrResultAlreadySet):
		return http.StatusConflict, ErrMsgAlreadySettledError
	case errors.Is(err, domain.ErrCannotCancelCompleted):
		return http.StatusConflict, ErrMsgCannotCancelError
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrMsgInvalidTransitionError
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, ErrMsgConflictError
	case errors.Is(err, domain.ErrSaveFailed), errors.Is(err, domain.ErrQueryFailed):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
