package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/pkg/config"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// refreshTokenStore abstracts the Redis-backed refresh-token storage.
// Available reports whether a real backend is wired in; without one a
// stored token could never be read back, so none is issued.
type refreshTokenStore interface {
	Available() bool
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// refreshRecord is what a refresh token maps to in storage.
type refreshRecord struct {
	Operator  string    `json:"operator"`
	IssuedAt  time.Time `json:"issued_at"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// AuthService authenticates the dashboard operator. The gateway knows a
// single operator account from its environment; the JWT subject is fixed to
// "1" so the super-admin convention carries over.
type AuthService struct {
	tokens    refreshTokenStore
	validator *validator.Validate
	logger    *zap.Logger
	config    config.AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(tokens refreshTokenStore, validate *validator.Validate, logger *zap.Logger, cfg config.AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{tokens: tokens, validator: validate, logger: logger, config: cfg}
}

// Login authenticates the operator and returns issued tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if !s.credentialsMatch(req.Username, req.Password) {
		s.logger.Warn("rejected login attempt",
			zap.String("username", req.Username),
			zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	accessToken, issuedAt, err := s.generateAccessToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	var refreshToken string
	if s.tokens.Available() {
		refreshToken, err = s.issueRefreshToken(ctx, req.IP, req.UserAgent)
		if err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("token store unavailable, session will not be refreshable",
			zap.String("username", req.Username))
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     issuedAt,
		Operator:     s.config.OperatorUsername,
	}, nil
}

// RefreshToken rotates a refresh token and returns a fresh access token.
func (s *AuthService) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	var rec refreshRecord
	if err := s.tokens.Get(ctx, refreshKey(req.RefreshToken), &rec); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is expired or unknown")
	}

	// single use: the old token dies with this exchange
	if err := s.tokens.Delete(ctx, refreshKey(req.RefreshToken)); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}

	accessToken, issuedAt, err := s.generateAccessToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshToken, err := s.issueRefreshToken(ctx, rec.IP, rec.UserAgent)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     issuedAt,
		Operator:     s.config.OperatorUsername,
	}, nil
}

// Logout revokes the provided refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Delete(ctx, refreshKey(refreshToken)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke refresh token")
	}
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// credentialsMatch compares against the configured operator account. A
// bcrypt hash wins over the plaintext fallback when both are set.
func (s *AuthService) credentialsMatch(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.config.OperatorUsername)) != 1 {
		return false
	}
	if s.config.OperatorBcryptHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.config.OperatorBcryptHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.config.OperatorPassword)) == 1
}

func (s *AuthService) generateAccessToken() (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		Operator: s.config.OperatorUsername,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func (s *AuthService) issueRefreshToken(ctx context.Context, ip, userAgent string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	rec := refreshRecord{
		Operator:  s.config.OperatorUsername,
		IssuedAt:  time.Now().UTC(),
		IP:        ip,
		UserAgent: userAgent,
	}
	if err := s.tokens.Set(ctx, refreshKey(token), rec, s.config.RefreshTokenExpiry); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}
	return token, nil
}

func refreshKey(token string) string {
	return "auth:refresh:" + token
}
