// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store/memstore"
)

func newAuthService() (*AuthService, *memstore.Store) {
	st := memstore.New()
	return NewAuthService(st, config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  1,
		RefreshTokenTTL: 24,
	}), st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Sam Site",
		Email:    "sam@example.com",
		Password: "StrongPass1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, models.UserRoleInspector, registered.User.Role)

	logged, err := svc.Login(ctx, &LoginRequest{Email: "sam@example.com", Password: "StrongPass1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
	assert.NotNil(t, logged.User.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := &RegisterRequest{Name: "Sam Site", Email: "sam@example.com", Password: "StrongPass1"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeIntegrity, apperr.CodeOf(err))
}

func TestRegisterWeakPasswordRejected(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Sam Site",
		Email:    "sam@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "Sam Site", Email: "sam@example.com", Password: "StrongPass1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "sam@example.com", Password: "WrongPass1"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))

	// Unknown accounts fail identically so emails cannot be probed.
	_, err = svc.Login(ctx, &LoginRequest{Email: "nosuch@example.com", Password: "StrongPass1"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{Name: "Sam Site", Email: "sam@example.com", Password: "StrongPass1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "Sam Site", Email: "sam@example.com", Password: "StrongPass1"})
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "sam@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// An unknown email yields no token and no error.
	missing, err := svc.ForgotPassword(ctx, "nosuch@example.com")
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, svc.ResetPassword(ctx, &ResetPasswordRequest{
		Token:       token,
		NewPassword: "NewStrongPass1",
	}))

	_, err = svc.Login(ctx, &LoginRequest{Email: "sam@example.com", Password: "StrongPass1"})
	require.Error(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "sam@example.com", Password: "NewStrongPass1"})
	require.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(ctx, &ResetPasswordRequest{Token: token, NewPassword: "AnotherPass1"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}
