package users

import (
	"context"
	"errors"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
)

var ErrNoEmail = errors.New("identity has no email")

// Service encapsulates user-related business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// ResolveOrCreate maps a verified external identity to a local user id,
// creating the user on first login. Calling it twice with the same email
// yields the same user; the unique email index plus the insert-then-reread
// below keep that true under concurrent first logins.
func (s *Service) ResolveOrCreate(ctx context.Context, email, name, picture string) (*models.User, error) {
	if email == "" {
		return nil, ErrNoEmail
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	nu := &models.User{Name: name, Email: email, Picture: picture}
	if err := s.repo.Create(ctx, nu); err != nil {
		return nil, err
	}
	// re-read: our insert may have been a no-op if a concurrent login won
	u, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user not found after create")
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
