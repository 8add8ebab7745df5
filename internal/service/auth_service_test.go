package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/pkg/config"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

type fakeTokenStore struct {
	data        map[string][]byte
	unavailable bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{data: map[string][]byte{}}
}

func (f *fakeTokenStore) Available() bool {
	return !f.unavailable
}

func (f *fakeTokenStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeTokenStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeTokenStore) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		OperatorUsername:   "admin",
		OperatorPassword:   "opensesame",
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "center-admin-api",
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := NewAuthService(newFakeTokenStore(), nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "admin", resp.Operator)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Operator)
	assert.True(t, claims.IsSuperAdmin())
}

func TestAuthServiceLoginWithoutTokenStore(t *testing.T) {
	store := newFakeTokenStore()
	store.unavailable = true
	svc := NewAuthService(store, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	// no refresh token is handed out that could never be redeemed
	assert.Empty(t, resp.RefreshToken)
	assert.Empty(t, store.data)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeTokenStore(), nil, nil, testAuthConfig())

	cases := []models.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "intruder", Password: "opensesame"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	}
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc := NewAuthService(newFakeTokenStore(), nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceBcryptHashWins(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testAuthConfig()
	cfg.OperatorBcryptHash = string(hash)
	svc := NewAuthService(newFakeTokenStore(), nil, nil, cfg)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.Error(t, err, "plaintext password must be ignored when a hash is configured")

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "hashed-pass"})
	require.NoError(t, err)
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	store := newFakeTokenStore()
	svc := NewAuthService(store, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the consumed token is single use
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogout(t *testing.T) {
	store := newFakeTokenStore()
	svc := NewAuthService(store, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestAuthServiceValidateTokenRejectsForgery(t *testing.T) {
	svc := NewAuthService(newFakeTokenStore(), nil, nil, testAuthConfig())

	other := testAuthConfig()
	other.JWTSecret = "different-secret"
	forger := NewAuthService(newFakeTokenStore(), nil, nil, other)

	login, err := forger.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "opensesame"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
