package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/features/session/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendAuth_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "login", r.URL.Query().Get("action"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		w.Write([]byte(`{"success":true,"token":"jwt","user":{"id":1,"name":"Ana","email":"ana@example.com"}}`))
	}))
	defer server.Close()

	auth := NewBackendAuth(backend.NewClient(server.URL, server.Client()))
	s, err := auth.Login(context.Background(), "ana@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "jwt", s.Token)
	assert.Equal(t, int64(1), s.User.ID)
}

func TestBackendAuth_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "register", r.URL.Query().Get("action"))
		var body domain.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123.456.789-00", body.CPF)
		w.Write([]byte(`{"success":true,"token":"jwt2","user":{"id":2,"name":"Bia"}}`))
	}))
	defer server.Close()

	auth := NewBackendAuth(backend.NewClient(server.URL, server.Client()))
	s, err := auth.Register(context.Background(), domain.Registration{Name: "Bia", CPF: "123.456.789-00"})

	require.NoError(t, err)
	assert.Equal(t, "jwt2", s.Token)
}

func TestBackendAuth_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	auth := NewBackendAuth(backend.NewClient(server.URL, server.Client()))
	_, err := auth.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrMissingToken)
}
