package sessions

import "context"

// Repository provides session persistence operations. GetByToken returns
// (nil, nil) for unknown or expired tokens.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
}
