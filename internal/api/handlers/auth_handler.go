package handlers

import (
	"errors"
	"net/http"

	"safaipak-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Auth *auth.Manager
	Log  *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid login request")
		return
	}

	token, err := h.Auth.Login(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.Log.Warn("Failed admin login", zap.String("email", req.Email), zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid email or password", Error: err.Error()})
		return
	}
	if err != nil {
		respondError(c, h.Log, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": auth.RoleAdmin})
}
