package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapters "tagnote/internal/auth/adapters/services"
	"tagnote/internal/auth/domain/services"
)

const testSecret = "test-secret"

func TestJWTAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testSecret, time.Minute, time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(ctx, "user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

	userID, err := svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestJWTRefreshTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testSecret, time.Minute, time.Hour)

	first, _, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = svc.ValidateAccessToken(ctx, first)
	require.ErrorIs(t, err, services.ErrInvalidJWTToken, "refresh token must not be accepted as access token")
}

func TestJWTValidateErrors(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testSecret, -time.Minute, time.Hour)

	expired, _, err := svc.GenerateAccessToken(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, expired)
	require.ErrorIs(t, err, services.ErrExpiredJWTToken)

	other := adapters.NewJWT("other-secret", time.Minute, time.Hour)
	foreign, _, err := other.GenerateAccessToken(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, foreign)
	require.ErrorIs(t, err, services.ErrInvalidJWTToken)

	_, err = svc.ValidateAccessToken(ctx, "garbage")
	require.ErrorIs(t, err, services.ErrInvalidJWTToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, adapters.Claims{
		UserID: "user-1",
		Type:   services.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, none)
	require.ErrorIs(t, err, services.ErrInvalidJWTToken)

	empty, err := jwt.NewWithClaims(jwt.SigningMethodHS256, adapters.Claims{
		Type: services.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, empty)
	require.ErrorIs(t, err, services.ErrInvalidJWTToken)
}

func TestJWTTokenTypes(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testSecret, time.Minute, time.Hour)

	assert.NotEqual(t, services.TokenTypeAccess, services.TokenTypeRefresh)

	refreshTyped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, adapters.Claims{
		UserID: "user-1",
		Type:   services.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, refreshTyped)
	require.ErrorIs(t, err, services.ErrInvalidJWTToken)

	stored := services.RefreshToken{UserID: "user-1", Token: refreshTyped}
	assert.Equal(t, "user-1", stored.UserID)
}

func TestJWTEmptySecret(t *testing.T) {
	svc := adapters.NewJWT("", time.Minute, time.Hour)

	_, _, err := svc.GenerateAccessToken(context.Background(), "user-1")
	require.ErrorIs(t, err, services.ErrGeneratingJWTToken)
}

func TestBcrypt(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash(ctx, "secret1")
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, "secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "wrong1", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Hash(ctx, "")
	require.ErrorIs(t, err, services.ErrInvalidPassword)

	_, err = svc.Verify(ctx, "secret1", "not-a-hash")
	require.Error(t, err)
}

func TestServiceFactory(t *testing.T) {
	factory := adapters.NewServiceFactory(testSecret, time.Minute, time.Hour, 0)
	assert.NotNil(t, factory.PasswordService())
	assert.NotNil(t, factory.TokenService())
}
