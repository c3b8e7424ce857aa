package services

import (
	"context"
	"strings"

	"github.com/taskpulse/apiserver/types"
	"golang.org/x/sync/errgroup"
)

type TaskSearcher interface {
	Search(ctx context.Context, term string) ([]types.Task, error)
}

type ProjectSearcher interface {
	Search(ctx context.Context, term string) ([]types.Project, error)
}

type UserSearcher interface {
	Search(ctx context.Context, term string) ([]types.User, error)
}

// SearchService matches a term across tasks, projects and usernames.
type SearchService struct {
	tasks    TaskSearcher
	projects ProjectSearcher
	users    UserSearcher
}

func NewSearchService(tasks TaskSearcher, projects ProjectSearcher, users UserSearcher) *SearchService {
	return &SearchService{tasks: tasks, projects: projects, users: users}
}

// Search runs the three lookups concurrently. Any failure fails the whole
// search.
func (s *SearchService) Search(ctx context.Context, query string) (types.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchResults{}, newError(ErrValidation, "Search query is required", nil)
	}

	results := types.SearchResults{
		Tasks:    []types.Task{},
		Projects: []types.Project{},
		Users:    []types.Identity{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := s.tasks.Search(gctx, query)
		if err != nil {
			return err
		}
		if tasks != nil {
			results.Tasks = tasks
		}
		return nil
	})
	g.Go(func() error {
		projects, err := s.projects.Search(gctx, query)
		if err != nil {
			return err
		}
		if projects != nil {
			results.Projects = projects
		}
		return nil
	})
	g.Go(func() error {
		users, err := s.users.Search(gctx, query)
		if err != nil {
			return err
		}
		results.Users = identities(users)
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.SearchResults{}, newError(ErrPersistence, "Error performing search", err)
	}
	return results, nil
}
