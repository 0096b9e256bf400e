// internal/handlers/auth/auth.go
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/domain/user"
	"visatrack-service/internal/middleware"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/response"
	service "visatrack-service/internal/service/auth"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many login attempts", nil)
		case errors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "invalid email or password")
		default:
			response.Error(c, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	jti, jtiOK := middleware.GetJTI(c)
	if !ok || !jtiOK {
		response.Unauthorized(c, "not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID, jti); err != nil {
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}
	response.Success(c, http.StatusOK, "logged out", nil)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}

	u, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load account", err)
		return
	}
	response.Success(c, http.StatusOK, "account retrieved", u)
}

// ChangePassword rotates the account password and revokes other sessions.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Unauthorized(c, "current password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to change password", err)
		return
	}
	response.Success(c, http.StatusOK, "password changed", nil)
}
