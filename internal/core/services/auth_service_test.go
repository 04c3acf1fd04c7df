package services

import (
	"testing"

	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/config"
	"clubtrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		cfg,
	)
}

func TestRegister_NewSignupIsGuest(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	result, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "new@test.local",
		Password:    "strongpass123",
		DisplayName: "New User",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.RoleGuest), result.User.Role)
	assert.Equal(t, "inactive", result.User.MembershipStatus)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Access token round-trips through validation
	claims, err := svc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "new@test.local", claims.Email)
	assert.Equal(t, string(domain.RoleGuest), claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	input := &RegisterInput{
		Email:       "dup@test.local",
		Password:    "strongpass123",
		DisplayName: "First",
	}
	_, err := svc.Register(testCtx(), input)
	require.NoError(t, err)

	_, err = svc.Register(testCtx(), input)
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegister_WeakPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "weak@test.local",
		Password:    "short",
		DisplayName: "Weak",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "login@test.local",
		Password:    "strongpass123",
		DisplayName: "Login User",
	})
	require.NoError(t, err)

	result, err := svc.Login(testCtx(), &LoginInput{
		Email:    "login@test.local",
		Password: "strongpass123",
	})
	require.NoError(t, err)
	assert.Equal(t, "login@test.local", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(testCtx(), &LoginInput{
		Email:    "login@test.local",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(testCtx(), &LoginInput{
		Email:    "nobody@test.local",
		Password: "strongpass123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_Rotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "rotate@test.local",
		Password:    "strongpass123",
		DisplayName: "Rotate User",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(testCtx(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old refresh token was revoked by the rotation
	_, err = svc.RefreshToken(testCtx(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The new one still works
	_, err = svc.RefreshToken(testCtx(), refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshToken_Garbage(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.RefreshToken(testCtx(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "logout@test.local",
		Password:    "strongpass123",
		DisplayName: "Logout User",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(testCtx(), registered.RefreshToken))

	_, err = svc.RefreshToken(testCtx(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutAll(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(testCtx(), &RegisterInput{
		Email:       "logoutall@test.local",
		Password:    "strongpass123",
		DisplayName: "Logout All User",
	})
	require.NoError(t, err)

	loggedIn, err := svc.Login(testCtx(), &LoginInput{
		Email:    "logoutall@test.local",
		Password: "strongpass123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(testCtx(), registered.User.ID))

	_, err = svc.RefreshToken(testCtx(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = svc.RefreshToken(testCtx(), loggedIn.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
