package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"donorhub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeRolledBack     = "rolled_back"
	ErrCodeRollbackFailed = "rollback_failed"
	ErrCodeTimeout        = "timeout"
	ErrCodeInternalError  = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForError maps a service error to its HTTP status and error code.
// Not-found and conflict are client errors (400) in this API, not 404/409.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRollbackFailed):
		return http.StatusInternalServerError, ErrCodeRollbackFailed
	case errors.Is(err, domain.ErrEventCreationRolledBack):
		return http.StatusBadRequest, ErrCodeRolledBack
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusBadRequest, ErrCodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, ErrCodeConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes err using StatusForError. Server-side failures are logged.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	WriteJSONError(w, status, code, err.Error())
}
