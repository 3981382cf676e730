package user

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates u unless the email is already taken. u.PasswordHash must
// already be hashed.
func (s *Service) Register(ctx context.Context, u User) (User, error) {
	_, err := s.repo.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return User{}, ErrAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return User{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.repo.Create(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) TouchLastLogin(ctx context.Context, id string) error {
	return s.repo.TouchLastLogin(ctx, id)
}
