package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/http/response"
)

// RequestCode issues a one-time verification code to a contact identifier
func (h *Handlers) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestCodeInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	// WriteDomainError keeps infrastructure failures opaque: anything that is
	// not a domain sentinel becomes a detail-free 500.
	if err := h.otp.RequestCode(r.Context(), &req); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent",
	})
}

// VerifyCode checks a supplied code against the pending challenge. Every
// auth failure shares one response so callers cannot tell an unknown
// contact from a wrong code.
func (h *Handlers) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.otp.VerifyCode(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrNoPendingChallenge) ||
			errors.Is(err, domain.ErrCodeExpired) ||
			errors.Is(err, domain.ErrCodeMismatch) ||
			errors.Is(err, domain.ErrIdentityNotFound) {
			response.WriteError(w, http.StatusUnauthorized,
				"Invalid or expired verification code", response.CodeVerificationFailed)
			return
		}
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
