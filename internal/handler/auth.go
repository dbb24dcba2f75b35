package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmap/internal/session"
)

// AuthHandler fronts the session lifecycle for the UI layer.
type AuthHandler struct {
	sessions SessionManager
}

// SessionManager interface for dependency injection.
type SessionManager interface {
	CheckStatus(ctx context.Context) session.Status
	Login(ctx context.Context, creds session.Credentials) (session.Status, error)
	Register(ctx context.Context, reg session.Registration) (session.Status, error)
	Logout(ctx context.Context) error
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Status handles GET /auth/status requests.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.CheckStatus(c.Request.Context()))
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed credentials"})
		return
	}

	status, err := h.sessions.Login(c.Request.Context(), creds)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c *gin.Context) {
	var reg session.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed registration"})
		return
	}

	status, err := h.sessions.Register(c.Request.Context(), reg)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Logout handles POST /auth/logout requests. The local session is cleared
// even when the backend could not be notified.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func writeAuthError(c *gin.Context, err error) {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, session.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid response from auth server"})
	case errors.As(err, &authErr):
		message := authErr.Message
		if message == "" {
			message = "authentication failed"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
