package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
	"github.com/taskpulse/apiserver/types"
)

// TaskHandler provides HTTP handlers for tasks.
type TaskHandler struct {
	taskService *services.TaskService
	logger      logging.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger logging.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// TaskRouter registers task routes on the given router.
func TaskRouter(r chi.Router, handler *TaskHandler) {
	r.Get("/", handler.ListTasks)
	r.Post("/", handler.CreateTask)
	r.Patch("/{taskID}/status", handler.UpdateTaskStatus)
	r.Get("/user/{userID}", handler.ListUserTasks)
}

type UpdateStatusRequest struct {
	Status types.TaskStatus `json:"status"`
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDQuery(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req types.Task
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = 0

	task, err := h.taskService.Create(r.Context(), identity.UserID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error creating task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseIDParam(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), taskID, req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error updating task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListUserTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error retrieving user's tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
