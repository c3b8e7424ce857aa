package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskpulse/apiserver/types"
)

const (
	msgLoginFailed  = "Login failed. Please check your credentials and try again."
	msgSignupFailed = "Signup failed. Please try again."
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrSessionExpired   = errors.New("session expired, please sign in again")
)

// UserError carries a message fit for display plus the underlying cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// Session is the signed-in state of a client. Its operations are serialized;
// across processes sharing one Storage the last writer wins.
type Session struct {
	mu      sync.Mutex
	storage Storage
	api     *APIClient
	now     func() time.Time

	token string
	user  *types.Identity
}

type SessionOption func(*Session)

// WithSessionClock overrides the clock used for expiry checks.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSession(storage Storage, api *APIClient, opts ...SessionOption) *Session {
	s := &Session{storage: storage, api: api, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores a persisted session. An expired or unreadable stored token is
// cleared rather than restored.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil

	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return err
	}
	rawUser, hasUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return err
	}
	if !hasToken && !hasUser {
		return nil
	}
	if !hasToken || !hasUser || !s.tokenLive(token) {
		return s.storage.Delete(ctx, KeyToken, KeyUser)
	}

	var user types.Identity
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return s.storage.Delete(ctx, KeyToken, KeyUser)
	}

	s.token = token
	s.user = &user
	return nil
}

func (s *Session) tokenLive(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.After(s.now())
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// User returns the signed-in identity.
func (s *Session) User() (types.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return types.Identity{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Login(ctx context.Context, username, password string) (types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return types.Identity{}, &UserError{Message: msgLoginFailed, Err: err}
	}
	if err := s.persist(ctx, resp); err != nil {
		return types.Identity{}, &UserError{Message: msgLoginFailed, Err: err}
	}
	return resp.User, nil
}

// Signup registers a new account and signs in with the returned token.
func (s *Session) Signup(ctx context.Context, username, password string, picture *Picture) (types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Register(ctx, username, password, picture)
	if err != nil {
		return types.Identity{}, &UserError{Message: msgSignupFailed, Err: err}
	}
	if err := s.persist(ctx, resp); err != nil {
		return types.Identity{}, &UserError{Message: msgSignupFailed, Err: err}
	}
	return resp.User, nil
}

// persist writes storage first, then memory. Caller holds mu.
func (s *Session) persist(ctx context.Context, resp AuthResponse) error {
	if resp.Token == "" {
		return errors.New("response carried no token")
	}
	rawUser, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := s.storage.SetAll(ctx, map[string]string{
		KeyToken: resp.Token,
		KeyUser:  string(rawUser),
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	user := resp.User
	s.token = resp.Token
	s.user = &user
	return nil
}

// Logout clears storage, then memory. If storage cannot be cleared the
// session stays signed in. The server-side revoke is best effort.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		_ = s.api.Logout(ctx, s.token)
	}
	if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.token, s.user = "", nil
	return nil
}

// Do sends req with the session token attached. A 401 clears the session and
// returns ErrSessionExpired.
func (s *Session) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	req = req.Clone(ctx)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.api.Send(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		s.expire(ctx, token)
		return nil, ErrSessionExpired
	}
	return resp, nil
}

func (s *Session) expire(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return
	}
	s.token, s.user = "", nil
	_ = s.storage.Delete(ctx, KeyToken, KeyUser)
}

// GetJSON fetches path with the session token and decodes the body into out.
func (s *Session) GetJSON(ctx context.Context, path string, out any) error {
	req, err := s.api.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := s.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
