package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/uzlearn/center-admin-api/internal/middleware"
	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/internal/service"
	"github.com/uzlearn/center-admin-api/pkg/config"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

type memoryTokenStore struct {
	data map[string][]byte
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{data: make(map[string][]byte)}
}

func (s *memoryTokenStore) Available() bool { return true }

func (s *memoryTokenStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *memoryTokenStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *memoryTokenStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func newAuthHandler() *AuthHandler {
	svc := service.NewAuthService(newMemoryTokenStore(), nil, nil, config.AuthConfig{
		OperatorUsername:   "admin",
		OperatorPassword:   "opensesame",
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "center-admin-api",
	})
	return NewAuthHandler(svc)
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandler()

	payload, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "opensesame"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	require.NotEmpty(t, envelope.Data.RefreshToken)
	require.Equal(t, "admin", envelope.Data.Operator)
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandler()

	payload, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "wrong"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandler()

	payload, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "opensesame"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)
	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	refreshPayload, _ := json.Marshal(models.RefreshTokenRequest{RefreshToken: login.Data.RefreshToken})
	c, w = newGinContext(http.MethodPost, "/auth/refresh", refreshPayload)
	handler.Refresh(c)
	require.Equal(t, http.StatusOK, w.Code)

	// tokens rotate; the old refresh token is spent
	c, w = newGinContext(http.MethodPost, "/auth/refresh", refreshPayload)
	handler.Refresh(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogoutRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandler()

	payload, _ := json.Marshal(map[string]string{"refresh_token": "whatever"})
	c, w := newGinContext(http.MethodPost, "/auth/logout", payload)
	handler.Logout(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/logout", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Operator: "admin"})
	handler.Logout(c)
	// Status set via c.Status is deferred until gin flushes the writer,
	// which an engine does after the handler chain returns.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
