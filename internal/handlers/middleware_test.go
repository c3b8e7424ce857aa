package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/internal/auth"
)

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: map[string]time.Time{}}
}

func (m *memDenylist) Revoke(_ context.Context, id string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = exp
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

type stubAuthenticator struct {
	claims *auth.Claims
	err    error
	seen   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	s.seen = token
	return s.claims, s.err
}

func runGate(t *testing.T, authenticator Authenticator, header string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()
	var got *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		got = &identity
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	RequireAuth(authenticator)(next).ServeHTTP(rec, req)
	return rec, got
}

func TestRequireAuth_NoToken(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		rec, identity := runGate(t, &stubAuthenticator{}, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"message":"No token provided"}`, rec.Body.String())
		assert.Nil(t, identity)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	stub := &stubAuthenticator{err: auth.ErrExpiredToken}
	rec, identity := runGate(t, stub, "Bearer abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
	assert.Nil(t, identity)
	assert.Equal(t, "abc.def.ghi", stub.seen)
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	stub := &stubAuthenticator{claims: &auth.Claims{
		UserID:   4,
		Username: "dana",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}}

	rec, identity := runGate(t, stub, "bearer tok")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, Identity{UserID: 4, Username: "dana", TokenID: "jti-1", ExpiresAt: exp}, *identity)
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
