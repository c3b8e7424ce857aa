package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
	"github.com/taskpulse/apiserver/types"
)

// AuthHandler serves registration, login and the caller's own account.
type AuthHandler struct {
	authService     *services.AuthService
	userService     *services.UserService
	logger          logging.Logger
	maxPictureBytes int64
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, logger logging.Logger, maxPictureBytes int64) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		userService:     userService,
		logger:          logger,
		maxPictureBytes: maxPictureBytes,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(authMiddleware).Get("/me", handler.Me)
	r.With(authMiddleware).Post("/logout", handler.Logout)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    types.Identity `json:"user"`
}

type LoginResponse struct {
	Message     string         `json:"message"`
	Token       string         `json:"token"`
	TokenExpiry int64          `json:"tokenExpiry"`
	User        types.Identity `json:"user"`
}

// Register accepts a multipart or urlencoded form with username, password and
// an optional profile picture.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseRegisterForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error creating user")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

type formError string

func (e formError) Error() string { return string(e) }

func (h *AuthHandler) parseRegisterForm(w http.ResponseWriter, r *http.Request) (services.RegisterInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPictureBytes+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxPictureBytes + multipartOverhead); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return services.RegisterInput{}, formError(pictureErrorMessage(errPictureTooLarge))
			}
			return services.RegisterInput{}, formError("Invalid multipart form")
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return services.RegisterInput{}, formError("Invalid form")
		}
	default:
		return services.RegisterInput{}, formError("Expected a multipart or urlencoded form")
	}

	input := services.RegisterInput{
		Username: strings.TrimSpace(r.PostFormValue(formFieldUsername)),
		Password: r.PostFormValue(formFieldPassword),
	}

	picture, err := parsePicture(r.MultipartForm, h.maxPictureBytes)
	if err != nil {
		input.PictureErr = formError(pictureErrorMessage(err))
		return input, nil
	}
	input.Picture = picture
	return input, nil
}

// Login accepts a JSON body. Unknown users and wrong passwords get the same
// 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error logging in")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:     "Login successful",
		Token:       result.Token,
		TokenExpiry: int64(result.ExpiresIn.Seconds()),
		User:        result.User,
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.userService.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		writeServiceError(w, r, h.logger, err, "Error retrieving user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout revokes the presented token when revocation is enabled.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.authService.Logout(r.Context(), identity.TokenID, identity.ExpiresAt); err != nil {
		writeServiceError(w, r, h.logger, err, "Error logging out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
