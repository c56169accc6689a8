package adapters

import (
	"context"
	"errors"
	"fmt"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/session/domain"
)

// ErrMissingToken is returned when the backend accepts credentials but
// sends no token.
var ErrMissingToken = errors.New("auth response without token")

// BackendAuth implements ports.AuthProvider over the remote API.
type BackendAuth struct {
	client *backend.Client
}

// NewBackendAuth creates a new BackendAuth.
func NewBackendAuth(client *backend.Client) *BackendAuth {
	return &BackendAuth{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// Login authenticates with email and password.
func (a *BackendAuth) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var resp authResponse
	if err := a.client.Post(ctx, backend.ActionLogin, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return toSession(resp)
}

// Register creates an account and signs it in.
func (a *BackendAuth) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	var resp authResponse
	if err := a.client.Post(ctx, backend.ActionRegister, reg, &resp); err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return toSession(resp)
}

func toSession(resp authResponse) (*domain.Session, error) {
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	return &domain.Session{Token: resp.Token, User: resp.User}, nil
}
