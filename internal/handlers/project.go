package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
	"github.com/taskpulse/apiserver/types"
)

// ProjectHandler provides HTTP handlers for projects.
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         logging.Logger
}

func NewProjectHandler(projectService *services.ProjectService, logger logging.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, logger: logger}
}

// ProjectRouter registers project routes on the given router.
func ProjectRouter(r chi.Router, handler *ProjectHandler) {
	r.Get("/", handler.ListProjects)
	r.Post("/", handler.CreateProject)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.Project
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = 0

	project, err := h.projectService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error creating project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}
