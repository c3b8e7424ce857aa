package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskpulse/apiserver/internal/auth"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/media"
	"github.com/taskpulse/apiserver/internal/store"
	"github.com/taskpulse/apiserver/internal/validator"
	"github.com/taskpulse/apiserver/types"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgUploadFailed       = "Error uploading profile picture"
	msgCreateFailed       = "Error creating user"
	msgLoginFailed        = "Error logging in"
)

// CredentialStore is the subset of the user repository authentication needs.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, m media.Media) (string, error)
	Remove(ctx context.Context, url string) error
}

type TokenIssuer interface {
	Issue(subject auth.Subject, ttl time.Duration) (string, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

type RegistrationNotifier interface {
	UserRegistered(ctx context.Context, user types.Identity) error
}

// RegisterInput carries a signup request. Picture is optional. PictureErr
// holds a picture the transport already rejected; it is reported only once
// the username is known to be free.
type RegisterInput struct {
	Username   string
	Password   string
	Picture    *media.Media
	PictureErr error
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresIn time.Duration
	User      types.Identity
}

// AuthService registers users, checks credentials and mints tokens.
type AuthService struct {
	users           CredentialStore
	uploader        MediaUploader
	tokens          TokenIssuer
	logger          logging.Logger
	notifier        RegistrationNotifier
	denylist        auth.Denylist
	maxPictureBytes int64
}

type AuthOption func(*AuthService)

// WithNotifier publishes a registration event after each signup.
func WithNotifier(n RegistrationNotifier) AuthOption {
	return func(s *AuthService) { s.notifier = n }
}

// WithDenylist enables token revocation on logout.
func WithDenylist(d auth.Denylist) AuthOption {
	return func(s *AuthService) { s.denylist = d }
}

func WithMaxPictureBytes(n int64) AuthOption {
	return func(s *AuthService) { s.maxPictureBytes = n }
}

func NewAuthService(users CredentialStore, uploader MediaUploader, tokens TokenIssuer, logger logging.Logger, opts ...AuthOption) *AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &AuthService{
		users:           users,
		uploader:        uploader,
		tokens:          tokens,
		logger:          logger,
		maxPictureBytes: 5 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. A supplied picture is uploaded before the
// user row is written; if either step fails nothing is left behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if errs := validator.ValidateLogin(in.Username, in.Password); errs.HasErrors() {
		return AuthResult{}, validationError(errs)
	}

	// a taken username wins over every other input problem
	_, err := s.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return AuthResult{}, newError(ErrConflict, msgUsernameTaken, nil)
	case !errors.Is(err, store.ErrNotFound):
		return AuthResult{}, newError(ErrPersistence, msgCreateFailed, err)
	}

	if errs := validator.ValidateRegister(in.Username, in.Password); errs.HasErrors() {
		return AuthResult{}, validationError(errs)
	}
	if in.PictureErr != nil {
		return AuthResult{}, newError(ErrValidation, in.PictureErr.Error(), in.PictureErr)
	}
	if in.Picture != nil {
		errs := validator.ValidatePicture(in.Picture.ContentType, int64(len(in.Picture.Data)), s.maxPictureBytes)
		if errs.HasErrors() {
			return AuthResult{}, validationError(errs)
		}
		if len(in.Picture.Data) == 0 {
			in.Picture = nil
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, newError(ErrInternal, msgCreateFailed, err)
	}

	var pictureURL *string
	if in.Picture != nil {
		url, err := s.uploader.Upload(ctx, *in.Picture)
		if err != nil {
			return AuthResult{}, newError(ErrUpload, msgUploadFailed, err)
		}
		pictureURL = &url
	}

	user, err := s.users.Create(ctx, types.User{
		Username:          in.Username,
		PasswordHash:      hash,
		ProfilePictureURL: pictureURL,
	})
	if err != nil {
		s.discardPicture(ctx, pictureURL)
		if errors.Is(err, store.ErrConflict) {
			return AuthResult{}, newError(ErrConflict, msgUsernameTaken, err)
		}
		return AuthResult{}, newError(ErrPersistence, msgCreateFailed, err)
	}

	token, err := s.tokens.Issue(auth.Subject{UserID: user.ID, Username: user.Username}, s.tokens.TTL())
	if err != nil {
		return AuthResult{}, newError(ErrInternal, msgCreateFailed, err)
	}

	identity := user.Identity()
	if s.notifier != nil {
		if err := s.notifier.UserRegistered(ctx, identity); err != nil {
			s.logger.Warn(ctx, "publish registration event failed", "user_id", user.ID, "error", err)
		}
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "with_picture", pictureURL != nil)
	return AuthResult{Token: token, ExpiresIn: s.tokens.TTL(), User: identity}, nil
}

func (s *AuthService) discardPicture(ctx context.Context, url *string) {
	if url == nil {
		return
	}
	if err := s.uploader.Remove(context.WithoutCancel(ctx), *url); err != nil {
		s.logger.Warn(ctx, "remove orphaned profile picture failed", "url", *url, "error", err)
	}
}

// Login checks the credentials. Unknown users and wrong passwords produce the
// same error after the same amount of bcrypt work.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	if errs := validator.ValidateLogin(username, password); errs.HasErrors() {
		return AuthResult{}, validationError(errs)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.BurnPassword(password)
			return AuthResult{}, newError(ErrInvalidCredentials, msgInvalidCredentials, nil)
		}
		return AuthResult{}, newError(ErrPersistence, msgLoginFailed, err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return AuthResult{}, newError(ErrInvalidCredentials, msgInvalidCredentials, nil)
	}

	token, err := s.tokens.Issue(auth.Subject{UserID: user.ID, Username: user.Username}, s.tokens.TTL())
	if err != nil {
		return AuthResult{}, newError(ErrInternal, msgLoginFailed, err)
	}

	return AuthResult{Token: token, ExpiresIn: s.tokens.TTL(), User: user.Identity()}, nil
}

// Authenticate verifies a bearer token and, when revocation is enabled,
// rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if s.denylist == nil {
		return claims, nil
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "denylist lookup failed", "error", err)
		return nil, fmt.Errorf("%w: denylist unavailable", auth.ErrInvalidToken)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", auth.ErrInvalidToken)
	}
	return claims, nil
}

// Logout revokes the token until its expiry. Without a denylist it is a no-op.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.denylist == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, tokenID, expiresAt); err != nil {
		return newError(ErrPersistence, "Error logging out", err)
	}
	return nil
}

// RevocationEnabled reports whether Logout has any server-side effect.
func (s *AuthService) RevocationEnabled() bool {
	return s.denylist != nil
}
