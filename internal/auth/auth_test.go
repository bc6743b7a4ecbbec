package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/mocks"
	"crm-platform-backend/internal/tenantctx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestAuthConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := NewAuthConfig("test-signing-key", 30)

		assert.NoError(t, config.ValidateConfig())
		assert.Equal(t, 30*time.Minute, config.TokenTTL)
		assert.Equal(t, "crm-platform-backend", config.Issuer)
	})

	t.Run("default ttl", func(t *testing.T) {
		config := NewAuthConfig("test-signing-key", 0)

		assert.Equal(t, 60*time.Minute, config.TokenTTL)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		config := &AuthConfig{TokenTTL: time.Hour}

		err := config.ValidateConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret is required")
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		config := &AuthConfig{JWTSecret: "test-secret", TokenTTL: -time.Minute}

		err := config.ValidateConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "token TTL must be positive")
	})
}

func TestJWTOperations(t *testing.T) {
	config := NewAuthConfig("test-signing-key-for-jwt-operations", 60)
	service, err := NewAuthService(config, nil, nil)
	require.NoError(t, err)

	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Email:     "alice@example.com",
		IsActive:  true,
	}

	t.Run("round trip", func(t *testing.T) {
		token, err := service.GenerateJWT(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, config.Issuer, claims.Issuer)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredService := &AuthService{config: &AuthConfig{
			JWTSecret: config.JWTSecret,
			TokenTTL:  -time.Minute,
			Issuer:    config.Issuer,
		}}
		token, err := expiredService.GenerateJWT(user)
		require.NoError(t, err)

		_, err = service.ValidateJWT(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherService, err := NewAuthService(NewAuthConfig("other-secret", 60), nil, nil)
		require.NoError(t, err)

		token, err := otherService.GenerateJWT(user)
		require.NoError(t, err)

		_, err = service.ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateJWT("not.a.token")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	config := NewAuthConfig("test-signing-key", 60)

	t.Run("success with tenant list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryInterface(ctrl)
		membershipRepo := mocks.NewMockMembershipRepositoryInterface(ctrl)
		service, err := NewAuthService(config, userRepo, membershipRepo)
		require.NoError(t, err)

		user := &models.User{
			BaseModel: models.BaseModel{ID: uuid.New()},
			Email:     "alice@example.com",
			IsActive:  true,
		}
		tenantID := uuid.New()
		userRepo.EXPECT().GetByEmail("alice@example.com").Return(user, nil)
		membershipRepo.EXPECT().GetByUser(user.ID).Return([]models.TenantMembership{
			{
				TenantID: tenantID,
				UserID:   user.ID,
				Role:     models.MembershipRoleOwner,
				Tenant:   &models.Tenant{BaseModel: models.BaseModel{ID: tenantID}, Slug: "acme", Name: "Acme"},
			},
		}, nil)

		resp, err := service.Login("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, user.ID, resp.UserID)
		require.Len(t, resp.Tenants, 1)
		assert.Equal(t, "acme", resp.Tenants[0].Slug)
		assert.Equal(t, "owner", resp.Tenants[0].Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryInterface(ctrl)
		service, err := NewAuthService(config, userRepo, mocks.NewMockMembershipRepositoryInterface(ctrl))
		require.NoError(t, err)

		userRepo.EXPECT().GetByEmail("ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err = service.Login("ghost@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("deactivated user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepo := mocks.NewMockUserRepositoryInterface(ctrl)
		service, err := NewAuthService(config, userRepo, mocks.NewMockMembershipRepositoryInterface(ctrl))
		require.NoError(t, err)

		userRepo.EXPECT().GetByEmail("gone@example.com").Return(&models.User{IsActive: false}, nil)

		_, err = service.Login("gone@example.com")
		assert.True(t, apperrors.IsAuthentication(err))
	})
}

// tenantTestEnv wires the middleware under test into a bare router with a
// probe route that reports the bound tenant context.
type tenantTestEnv struct {
	router         *gin.Engine
	tenantRepo     *mocks.MockTenantRepositoryInterface
	membershipRepo *mocks.MockMembershipRepositoryInterface
	userID         uuid.UUID
}

func setupTenantTest(t *testing.T) *tenantTestEnv {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	env := &tenantTestEnv{
		tenantRepo:     mocks.NewMockTenantRepositoryInterface(ctrl),
		membershipRepo: mocks.NewMockMembershipRepositoryInterface(ctrl),
		userID:         uuid.New(),
	}

	service, err := NewAuthService(NewAuthConfig("test-signing-key", 60), nil, nil)
	require.NoError(t, err)
	middleware := NewAuthMiddleware(service, env.tenantRepo, env.membershipRepo)

	env.router = gin.New()
	// Simulate RequireAuth having already identified the principal.
	env.router.Use(func(c *gin.Context) {
		c.Set("user_id", env.userID)
	})
	env.router.GET("/probe", middleware.RequireTenant(), func(c *gin.Context) {
		tenantID, err := tenantctx.Current(c.Request.Context())
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": tenantID,
			"actor":     tenantctx.Actor(c.Request.Context()),
		})
	})
	return env
}

func (env *tenantTestEnv) probe(header string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/probe", nil)
	if header != "" {
		req.Header.Set(TenantHeader, header)
	}
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireTenant(t *testing.T) {
	t.Run("binds tenant and actor", func(t *testing.T) {
		env := setupTenantTest(t)
		tenantID := uuid.New()

		env.tenantRepo.EXPECT().GetByID(tenantID).Return(&models.Tenant{
			BaseModel: models.BaseModel{ID: tenantID},
			Status:    models.TenantStatusActive,
		}, nil)
		env.membershipRepo.EXPECT().GetByTenantAndUser(tenantID, env.userID).Return(&models.TenantMembership{}, nil)

		recorder := env.probe(tenantID.String())

		require.Equal(t, http.StatusOK, recorder.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, tenantID.String(), body["tenant_id"])
		assert.Equal(t, env.userID.String(), body["actor"])
	})

	t.Run("missing header", func(t *testing.T) {
		env := setupTenantTest(t)

		recorder := env.probe("")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		env := setupTenantTest(t)

		recorder := env.probe("not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("non-member gets same 404 as unknown tenant", func(t *testing.T) {
		env := setupTenantTest(t)

		unknownID := uuid.New()
		env.tenantRepo.EXPECT().GetByID(unknownID).Return(nil, gorm.ErrRecordNotFound)
		unknownRec := env.probe(unknownID.String())

		foreignID := uuid.New()
		env.tenantRepo.EXPECT().GetByID(foreignID).Return(&models.Tenant{
			BaseModel: models.BaseModel{ID: foreignID},
			Status:    models.TenantStatusActive,
		}, nil)
		env.membershipRepo.EXPECT().GetByTenantAndUser(foreignID, env.userID).Return(nil, gorm.ErrRecordNotFound)
		foreignRec := env.probe(foreignID.String())

		assert.Equal(t, http.StatusNotFound, unknownRec.Code)
		assert.Equal(t, http.StatusNotFound, foreignRec.Code)
		assert.Equal(t, unknownRec.Body.String(), foreignRec.Body.String())
	})

	t.Run("suspended tenant", func(t *testing.T) {
		env := setupTenantTest(t)
		tenantID := uuid.New()

		env.tenantRepo.EXPECT().GetByID(tenantID).Return(&models.Tenant{
			BaseModel: models.BaseModel{ID: tenantID},
			Status:    models.TenantStatusSuspended,
		}, nil)
		env.membershipRepo.EXPECT().GetByTenantAndUser(tenantID, env.userID).Return(&models.TenantMembership{}, nil)

		recorder := env.probe(tenantID.String())

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service, err := NewAuthService(NewAuthConfig("test-signing-key", 60), nil, nil)
	require.NoError(t, err)
	middleware := NewAuthMiddleware(service, nil, nil)

	router := gin.New()
	router.GET("/probe", middleware.RequireAuth(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	probe := func(authHeader string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", "/probe", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("valid token", func(t *testing.T) {
		user := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Email: "alice@example.com"}
		token, err := service.GenerateJWT(user)
		require.NoError(t, err)

		recorder := probe("Bearer " + token)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		recorder := probe("")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		recorder := probe("Basic abc123")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		recorder := probe("Bearer invalid.token.here")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
