package httpx

import (
	"context"
	"net/http"
	"slices"

	"lms/internal/platform/crypto"
)

// Revocations reports whether an access token id has been revoked.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
}

func authenticate(r *http.Request, secret string, revoked Revocations) (*http.Request, bool) {
	token := BearerToken(r)
	if token == "" {
		return r, false
	}
	claims, err := crypto.ParseToken(secret, token)
	if err != nil {
		return r, false
	}
	if revoked != nil {
		isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
		if err != nil || isRevoked {
			return r, false
		}
	}

	ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
	ctx = contextWithTokenID(ctx, claims.ID)
	recordUser(ctx, claims.Sub)
	return r.WithContext(ctx), true
}

// AuthMiddleware requires a valid, unrevoked bearer token.
func AuthMiddleware(secret string, revoked Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed, ok := authenticate(r, secret, revoked)
			if !ok {
				unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present and
// lets anonymous requests through.
func OptionalAuthMiddleware(secret string, revoked Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if BearerToken(r) == "" {
				next.ServeHTTP(w, r)
				return
			}
			authed, ok := authenticate(r, secret, revoked)
			if !ok {
				unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFrom(r) == "" {
				unauthorized(w, r)
				return
			}
			if !slices.Contains(roles, RoleFrom(r)) {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
