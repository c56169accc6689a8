package ports

import (
	"context"

	"delivery-client/internal/features/session/domain"
)

// AuthProvider exchanges credentials for a session on the remote service.
type AuthProvider interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)
}

// SessionRepository persists the token and the profile.
type SessionRepository interface {
	// Load returns the stored session. A corrupt profile is dropped and the
	// token is still returned.
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}
