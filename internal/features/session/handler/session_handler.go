package handler

import (
	"context"
	"errors"
	"net/http"

	"delivery-client/internal/core/server"
	"delivery-client/internal/features/session/domain"
	"delivery-client/internal/features/session/service"

	"github.com/gofiber/fiber/v2"
)

// Sessions is the primary port used by the handler.
type Sessions interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
	Logout(ctx context.Context)
	Current(ctx context.Context) domain.Session
}

// SessionHandler handles sign-in and sign-up.
type SessionHandler struct {
	service Sessions
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(s Sessions) *SessionHandler {
	return &SessionHandler{service: s}
}

// Register mounts the session routes.
func (h *SessionHandler) Register(r fiber.Router) {
	r.Get("/session", h.Get)
	r.Post("/session/login", h.Login)
	r.Post("/session/register", h.SignUp)
	r.Delete("/session", h.Logout)
}

// LoginRequest is the body of POST /session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse reports the signed-in state. The token never leaves the client core.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

func toResponse(s domain.Session) SessionResponse {
	return SessionResponse{Authenticated: s.Authenticated(), User: s.User}
}

// Get handles GET /session.
// @Summary Current session
// @Tags Session
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toResponse(h.service.Current(c.UserContext())))
}

// Login handles POST /session/login.
// @Summary Sign in
// @Tags Session
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Router /session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	sess, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(toResponse(sess))
}

// SignUp handles POST /session/register.
// @Summary Create an account
// @Tags Session
// @Accept json
// @Produce json
// @Param body body domain.Registration true "Registration"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Router /session/register [post]
func (h *SessionHandler) SignUp(c *fiber.Ctx) error {
	var req domain.Registration
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	sess, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(toResponse(sess))
}

// Logout handles DELETE /session.
// @Summary Sign out
// @Tags Session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.service.Logout(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

func authFailure(c *fiber.Ctx, err error) error {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		return server.Fail(c, http.StatusUnauthorized, authErr.Message)
	}
	return server.Fail(c, http.StatusInternalServerError, "Internal Server Error")
}
