package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Service wraps repository operations with business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Create stores the session under a fresh opaque token and returns the token.
func (s *Service) Create(ctx context.Context, sess *Session, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sess.Token = hex.EncodeToString(b)
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(ttl)
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Get returns the session if the token is valid and not expired
func (s *Service) Get(ctx context.Context, token string) (*Session, error) {
	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		// cleanup expired session
		_ = s.repo.DeleteByToken(ctx, token)
		return nil, nil
	}
	return sess, nil
}

// Update rewrites an existing session record in place (same token).
func (s *Service) Update(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

func (s *Service) Delete(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}
