package services

import (
	"context"
	"errors"
	"strings"

	"github.com/taskpulse/apiserver/internal/store"
	"github.com/taskpulse/apiserver/internal/validator"
	"github.com/taskpulse/apiserver/types"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	ListByProject(ctx context.Context, projectID int) ([]types.Task, error)
	ListByUser(ctx context.Context, userID int) ([]types.Task, error)
	Search(ctx context.Context, term string) ([]types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	UpdateStatus(ctx context.Context, id int, status types.TaskStatus) (types.Task, error)
}

// ProjectLookup resolves a project id.
type ProjectLookup interface {
	Get(ctx context.Context, id int) (types.Project, error)
}

// TaskService encapsulates task use-cases.
type TaskService struct {
	repo     TaskRepository
	projects ProjectLookup
}

func NewTaskService(repo TaskRepository, projects ProjectLookup) *TaskService {
	return &TaskService{repo: repo, projects: projects}
}

func (s *TaskService) ListByProject(ctx context.Context, projectID int) ([]types.Task, error) {
	if projectID < 1 {
		return nil, newError(ErrValidation, "Project id is required", nil)
	}
	tasks, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "Project not found", "Error retrieving tasks")
	}
	return tasks, nil
}

func (s *TaskService) ListByUser(ctx context.Context, userID int) ([]types.Task, error) {
	if userID < 1 {
		return nil, newError(ErrValidation, "User id is required", nil)
	}
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found", "Error retrieving user's tasks")
	}
	return tasks, nil
}

// Create stores a task. The author defaults to authorID when not given.
func (s *TaskService) Create(ctx context.Context, authorID int, task types.Task) (types.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if errs := validator.ValidateTask(task.Title, task.ProjectID, task.Status, task.Priority); errs.HasErrors() {
		return types.Task{}, validationError(errs)
	}
	if task.DueDate != nil && task.StartDate != nil && task.DueDate.Before(*task.StartDate) {
		return types.Task{}, newError(ErrValidation, "Task due date must not be before its start date", nil)
	}
	if task.AuthorUserID == nil {
		task.AuthorUserID = &authorID
	}
	if task.Status == nil {
		status := types.StatusToDo
		task.Status = &status
	}

	if _, err := s.projects.Get(ctx, task.ProjectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Task{}, newError(ErrValidation, "Project does not exist", err)
		}
		return types.Task{}, newError(ErrPersistence, "Error creating task", err)
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return types.Task{}, newError(ErrValidation, "Task author or assignee does not exist", err)
		}
		return types.Task{}, newError(ErrPersistence, "Error creating task", err)
	}
	return created, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, id int, status types.TaskStatus) (types.Task, error) {
	if errs := validator.ValidateStatus(status); errs.HasErrors() {
		return types.Task{}, validationError(errs)
	}
	task, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return types.Task{}, storeError(err, "Task not found", "Error updating task")
	}
	return task, nil
}
