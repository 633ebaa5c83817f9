package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// Common error codes not tied to a domain sentinel
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeVerificationFailed = "VERIFICATION_FAILED"
)

// WriteDomainError maps a domain sentinel error onto its HTTP status and
// stable code. Anything unrecognized is reported as an internal error
// without leaking detail.
func WriteDomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
		return
	}

	status := http.StatusBadRequest
	switch derr {
	case domain.ErrNotFound, domain.ErrIdentityNotFound:
		status = http.StatusNotFound
	case domain.ErrNoPendingChallenge, domain.ErrCodeExpired, domain.ErrCodeMismatch:
		status = http.StatusUnauthorized
	case domain.ErrDeliveryFailed:
		status = http.StatusBadGateway
	case domain.ErrTooManyRequests:
		status = http.StatusTooManyRequests
	}

	WriteError(w, status, derr.Message, derr.Code)
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, "NOT_FOUND")
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
