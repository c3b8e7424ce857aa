package services

import (
	"context"

	"github.com/taskpulse/apiserver/types"
)

type TeamRepository interface {
	List(ctx context.Context) ([]types.Team, error)
}

type TeamService struct {
	repo TeamRepository
}

func NewTeamService(repo TeamRepository) *TeamService {
	return &TeamService{repo: repo}
}

func (s *TeamService) List(ctx context.Context) ([]types.Team, error) {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return nil, newError(ErrPersistence, "Error retrieving teams", err)
	}
	return teams, nil
}
