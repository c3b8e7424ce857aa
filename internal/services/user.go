package services

import (
	"context"

	"github.com/taskpulse/apiserver/types"
)

// UserRepository defines read operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Search(ctx context.Context, term string) ([]types.User, error)
}

// UserService exposes users without their credentials.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, id int) (types.Identity, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Identity{}, storeError(err, "User not found", "Error retrieving user")
	}
	return user.Identity(), nil
}

func (s *UserService) List(ctx context.Context) ([]types.Identity, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "User not found", "Error retrieving users")
	}
	return identities(users), nil
}

func identities(users []types.User) []types.Identity {
	out := make([]types.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, u.Identity())
	}
	return out
}
