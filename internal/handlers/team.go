package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
	logger      logging.Logger
}

func NewTeamHandler(teamService *services.TeamService, logger logging.Logger) *TeamHandler {
	return &TeamHandler{teamService: teamService, logger: logger}
}

func TeamRouter(r chi.Router, handler *TeamHandler) {
	r.Get("/", handler.ListTeams)
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving teams")
		return
	}
	writeJSON(w, http.StatusOK, teams)
}
