package auth

import (
	"fmt"
	"time"
)

// AuthConfig holds the settings for issuing and validating session tokens
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// NewAuthConfig creates an auth config with the given secret and TTL in minutes
func NewAuthConfig(jwtSecret string, tokenTTLMinutes int) *AuthConfig {
	if tokenTTLMinutes <= 0 {
		tokenTTLMinutes = 60
	}
	return &AuthConfig{
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(tokenTTLMinutes) * time.Minute,
		Issuer:    "crm-platform-backend",
	}
}

// ValidateConfig checks that the config is usable
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	return nil
}
