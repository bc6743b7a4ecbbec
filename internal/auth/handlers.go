package auth

import (
	"net/http"

	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	service *AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login issues a session token for a known user
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.service.Login(req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsAuthentication(err) {
			// Same answer for unknown and deactivated users
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.WithContext(c.Request.Context()).WithError(err).Error("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated principal and the tenants it may select
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	resp, err := h.service.Login(claims.Email)
	if err != nil {
		logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":  claims.UserID,
		"email":   claims.Email,
		"tenants": resp.Tenants,
	})
}
