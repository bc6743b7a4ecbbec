package auth

import (
	"errors"
	"net/http"
	"strings"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/repository"
	"crm-platform-backend/internal/tenantctx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantHeader names the header that selects the tenant for one request
const TenantHeader = "X-Tenant-ID"

// AuthMiddleware provides JWT authentication and tenant selection middleware
type AuthMiddleware struct {
	service        *AuthService
	tenantRepo     repository.TenantRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *AuthService, tenantRepo repository.TenantRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface) *AuthMiddleware {
	return &AuthMiddleware{
		service:        service,
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
	}
}

// RequireAuth validates JWT tokens and sets user context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.service.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("auth_claims", claims)

		c.Next()
	}
}

// RequireTenant resolves the tenant header, verifies the authenticated user
// holds an active membership in that tenant, and binds the tenant to the
// request context. A user probing a tenant they do not belong to gets the
// same 404 as a tenant that does not exist.
func (m *AuthMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		header := c.GetHeader(TenantHeader)
		if header == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrMissingTenantHdr.Error()})
			c.Abort()
			return
		}

		tenantID, err := uuid.Parse(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tenant header must be a UUID"})
			c.Abort()
			return
		}

		tenant, err := m.tenantRepo.GetByID(tenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrTenantNotFound.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve tenant"})
			}
			c.Abort()
			return
		}

		if _, err := m.membershipRepo.GetByTenantAndUser(tenant.ID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrTenantNotFound.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
			}
			c.Abort()
			return
		}

		if tenant.Status != models.TenantStatusActive {
			c.JSON(http.StatusForbidden, gin.H{"error": apperrors.ErrTenantSuspended.Error()})
			c.Abort()
			return
		}

		ctx := tenantctx.WithTenant(c.Request.Context(), tenant.ID)
		ctx = tenantctx.WithActor(ctx, userID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set("tenant_id", tenant.ID)

		c.Next()
	}
}

// GetUserID is a helper function to extract user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail is a helper function to extract user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get("email")
	if !exists {
		return "", false
	}

	emailStr, ok := email.(string)
	return emailStr, ok
}

// GetTenantID is a helper function to extract the selected tenant from context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil, false
	}

	id, ok := tenantID.(uuid.UUID)
	return id, ok
}

// GetAuthClaims is a helper function to extract full auth claims from context
func GetAuthClaims(c *gin.Context) (*AuthClaims, bool) {
	claims, exists := c.Get("auth_claims")
	if !exists {
		return nil, false
	}

	authClaims, ok := claims.(*AuthClaims)
	return authClaims, ok
}
