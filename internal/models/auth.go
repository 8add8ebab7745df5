package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an operator.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	Operator     string    `json:"operator"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// IsSuperAdmin reports whether the claims belong to the primary operator.
// Mirrors the convention that subject id 1 owns destructive actions.
func (c *JWTClaims) IsSuperAdmin() bool {
	return c != nil && c.Subject == "1"
}
