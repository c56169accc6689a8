package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-client/internal/core/server"
	"delivery-client/internal/features/session/domain"
	"delivery-client/internal/features/session/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Login(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessions) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessions) Logout(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockSessions) Current(ctx context.Context) domain.Session {
	return m.Called(ctx).Get(0).(domain.Session)
}

func setupApp(svc *MockSessions) *fiber.App {
	app := fiber.New()
	NewSessionHandler(svc).Register(app)
	return app
}

func TestSessionHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockSessions)
		svc.On("Login", mock.Anything, "ana@example.com", "pw").
			Return(domain.Session{Token: "tok", User: &domain.User{Name: "Ana"}}, nil).Once()

		body, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "pw"})
		req := httptest.NewRequest("POST", "/session/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := setupApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out SessionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Authenticated)
		assert.Equal(t, "Ana", out.User.Name)
		svc.AssertExpectations(t)
	})

	t.Run("Rejected", func(t *testing.T) {
		svc := new(MockSessions)
		svc.On("Login", mock.Anything, "a", "b").
			Return(domain.Session{}, &service.AuthError{Message: "Senha incorreta"}).Once()

		body, _ := json.Marshal(LoginRequest{Email: "a", Password: "b"})
		req := httptest.NewRequest("POST", "/session/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := setupApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var out server.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "Senha incorreta", out.Message)
	})
}

func TestSessionHandler_Logout(t *testing.T) {
	svc := new(MockSessions)
	svc.On("Logout", mock.Anything).Once()

	resp, err := setupApp(svc).Test(httptest.NewRequest("DELETE", "/session", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestSessionHandler_Get(t *testing.T) {
	svc := new(MockSessions)
	svc.On("Current", mock.Anything).Return(domain.Session{}).Once()

	resp, err := setupApp(svc).Test(httptest.NewRequest("GET", "/session", nil))
	require.NoError(t, err)

	var out SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Authenticated)
}
