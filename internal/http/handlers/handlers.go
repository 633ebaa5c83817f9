package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mentorhub/mentorhub-api/internal/http/response"
	"github.com/mentorhub/mentorhub-api/internal/schedule"
	"github.com/mentorhub/mentorhub-api/internal/service"
	"github.com/mentorhub/mentorhub-api/pkg/auth"
	"github.com/mentorhub/mentorhub-api/pkg/config"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
)

type Handlers struct {
	availability service.AvailabilityService
	otp          service.OTPService
	formatter    *schedule.Formatter
	config       *config.Config
}

func New(
	availability service.AvailabilityService,
	otp service.OTPService,
	formatter *schedule.Formatter,
	config *config.Config,
) *Handlers {
	return &Handlers{
		availability: availability,
		otp:          otp,
		formatter:    formatter,
		config:       config,
	}
}

type claimsKey struct{}

// RequireSession authenticates requests with a session token minted after
// OTP verification.
func (h *Handlers) RequireSession(requiredKind string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredKind != "" && claims.Kind != requiredKind {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), logger.MentorIDKey, claims.Sub)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func mentorIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// viewerOffset reads the viewer's own UTC offset from the tz_offset query
// parameter, in minutes east of UTC.
func viewerOffset(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("tz_offset")
	if v == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(v)
	if err != nil || minutes < -14*60 || minutes > 14*60 {
		return 0, false
	}
	return minutes, true
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
