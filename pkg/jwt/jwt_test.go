package jwt

import (
	"testing"
	"time"

	"go-appointment-booking/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	userID := uuid.New()

	access, accessID, err := svc.GenerateAccessToken(userID, "doc@example.com", []string{"doctor"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, accessID, claims.TokenID)
	assert.Equal(t, []string{"doctor"}, claims.Roles)

	refresh, refreshID, err := svc.GenerateRefreshToken(userID, "doc@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, accessID, refreshID)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
	assert.Empty(t, claims.Roles)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: -time.Minute, RefreshExpiry: time.Hour})
	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})

	expired, _, err := svc.GenerateAccessToken(uuid.New(), "p@example.com", nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	foreign, _, err := other.GenerateAccessToken(uuid.New(), "p@example.com", nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
