package auth

import (
	"errors"
	"fmt"
	"time"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// LoginRequest represents the request to start a session
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginResponse represents the response for a successful login
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int64         `json:"expiresIn"`
	UserID      uuid.UUID     `json:"userId"`
	Tenants     []TenantEntry `json:"tenants"`
}

// TenantEntry lists one tenant the user may select with the tenant header
type TenantEntry struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// AuthService provides session token functionality. Tokens identify a
// principal only; the tenant is selected per request and re-verified against
// memberships on every call.
type AuthService struct {
	config         *AuthConfig
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, userRepo repository.UserRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	return &AuthService{
		config:         config,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
	}, nil
}

// Login issues a session token for a known active user
func (s *AuthService) Login(email string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.NewAuthenticationError("user is deactivated")
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	memberships, err := s.membershipRepo.GetByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	tenants := make([]TenantEntry, 0, len(memberships))
	for _, m := range memberships {
		entry := TenantEntry{ID: m.TenantID, Role: string(m.Role)}
		if m.Tenant != nil {
			entry.Slug = m.Tenant.Slug
			entry.Name = m.Tenant.Name
		}
		tenants = append(tenants, entry)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.TokenTTL.Seconds()),
		UserID:      user.ID,
		Tenants:     tenants,
	}, nil
}

// GenerateJWT creates a JWT token for the user
func (s *AuthService) GenerateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateJWT validates and parses a JWT token
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
