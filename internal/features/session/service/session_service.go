package service

import (
	"context"
	"sync"
	"time"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/logger"
	"delivery-client/internal/features/session/domain"
	"delivery-client/internal/features/session/ports"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const connectFailedMessage = "Erro ao conectar com o servidor."

// AuthError carries the message shown on a failed login or sign-up.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// SessionService owns the credential held by this client. It is the token
// source for backend calls and is invalidated on 401/403.
type SessionService struct {
	provider ports.AuthProvider
	repo     ports.SessionRepository
	now      func() time.Time
	log      *zap.Logger

	mu      sync.RWMutex
	current domain.Session
}

// NewSessionService creates a SessionService and restores the stored session.
func NewSessionService(ctx context.Context, provider ports.AuthProvider, repo ports.SessionRepository) *SessionService {
	s := &SessionService{
		provider: provider,
		repo:     repo,
		now:      time.Now,
		log:      logger.Named("session"),
	}

	stored, err := repo.Load(ctx)
	if err != nil {
		s.log.Error("Failed to restore session", zap.Error(err))
	}
	s.current = stored
	return s
}

// Login authenticates and persists the session.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, &AuthError{Message: backend.Message(err, connectFailedMessage, "error"), Err: err}
	}
	s.store(ctx, *sess)
	return *sess, nil
}

// Register signs up and persists the session.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	sess, err := s.provider.Register(ctx, reg)
	if err != nil {
		return domain.Session{}, &AuthError{Message: backend.Message(err, connectFailedMessage, "error"), Err: err}
	}
	s.store(ctx, *sess)
	return *sess, nil
}

// Logout drops the session.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn("Failed to clear stored session", zap.Error(err))
	}
}

// Invalidate is the unauthorized hook for the backend client.
func (s *SessionService) Invalidate(ctx context.Context) {
	s.log.Info("Session invalidated by backend")
	s.Logout(ctx)
}

// Current returns the active session. An expired JWT counts as signed out.
func (s *SessionService) Current(ctx context.Context) domain.Session {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current.Authenticated() && s.expired(current.Token) {
		s.log.Info("Stored token expired")
		s.Logout(ctx)
		return domain.Session{}
	}
	return current
}

// Authenticated reports whether a usable token is held.
func (s *SessionService) Authenticated(ctx context.Context) bool {
	return s.Current(ctx).Authenticated()
}

// Token implements backend.TokenSource.
func (s *SessionService) Token(ctx context.Context) string {
	return s.Current(ctx).Token
}

func (s *SessionService) store(ctx context.Context, sess domain.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.repo.Save(ctx, sess); err != nil {
		s.log.Warn("Failed to persist session", zap.Error(err))
	}
}

// expired reads exp without verifying the signature; the backend stays the
// authority. Opaque (non-JWT) tokens never expire locally.
func (s *SessionService) expired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && s.now().After(claims.ExpiresAt.Time)
}
