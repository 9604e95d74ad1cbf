package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/routine-api/internal/api/shared"
	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/service/identity"
)

// AuthMiddleware authenticates requests and resolves the caller's directory
// profile into the request context.
type AuthMiddleware struct {
	verifier identity.TokenVerifier
	resolver identity.Service
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier identity.TokenVerifier, resolver identity.Service) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		resolver: resolver,
	}
}

// Authenticate validates bearer tokens from the Authorization header,
// resolves the principal against the employee directory, and adds the
// resulting profile to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, identity.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", err)
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		profile, err := m.resolver.Resolve(r.Context(), claims.Principal)
		if err != nil {
			slog.Error("failed to resolve caller profile",
				"error", err,
				"principal", claims.Principal)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.ProfileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetProfile extracts the caller's employee profile from the request context.
// Returns the profile and a boolean indicating if it was found.
func GetProfile(r *http.Request) (*domain.EmployeeProfile, bool) {
	profile, ok := r.Context().Value(shared.ProfileContextKey).(*domain.EmployeeProfile)
	return profile, ok
}
