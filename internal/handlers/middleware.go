package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/taskpulse/apiserver/internal/auth"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID    int
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// IdentityFromContext returns the caller set by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(Identity)
	return identity, ok && identity.UserID > 0
}

// Authenticator resolves a bearer token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. It never retries;
// callers must log in again to get a fresh token.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := authenticator.Authenticate(r.Context(), tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			identity := Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
				TokenID:  claims.ID,
			}
			if claims.ExpiresAt != nil {
				identity.ExpiresAt = claims.ExpiresAt.Time
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
