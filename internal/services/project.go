package services

import (
	"context"
	"strings"

	"github.com/taskpulse/apiserver/internal/validator"
	"github.com/taskpulse/apiserver/types"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]types.Project, error)
	Get(ctx context.Context, id int) (types.Project, error)
	Create(ctx context.Context, project types.Project) (types.Project, error)
	Search(ctx context.Context, term string) ([]types.Project, error)
}

// ProjectService encapsulates project use-cases.
type ProjectService struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context) ([]types.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "Project not found", "Error retrieving projects")
	}
	return projects, nil
}

func (s *ProjectService) Create(ctx context.Context, project types.Project) (types.Project, error) {
	project.Name = strings.TrimSpace(project.Name)
	if errs := validator.ValidateProject(project.Name); errs.HasErrors() {
		return types.Project{}, validationError(errs)
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return types.Project{}, newError(ErrValidation, "Project end date must not be before its start date", nil)
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return types.Project{}, newError(ErrPersistence, "Error creating project", err)
	}
	return created, nil
}
