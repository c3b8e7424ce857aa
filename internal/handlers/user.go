package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	logger      logging.Logger
}

func NewUserHandler(userService *services.UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func UserRouter(r chi.Router, handler *UserHandler) {
	r.Get("/", handler.ListUsers)
	r.Get("/{userID}", handler.GetUser)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
