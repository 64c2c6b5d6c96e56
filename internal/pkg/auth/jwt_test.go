package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "collective-test"})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	id := uuid.New()

	token, err := svc.GenerateToken(id, " Ana@Example.com ")
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, "ana@example.com", claims.Email)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, err := svc.GenerateToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongSecret(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "collective-test"})
	_, err = other.ValidateAndExtractClaims(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedToken(t *testing.T) {
	_, err := newTestService(time.Hour).ValidateAndExtractClaims("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("  ")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCheckSecret(t *testing.T) {
	hash, err := HashSecret("open-sesame")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))
	require.True(t, CheckSecret(hash, "open-sesame"))
	require.False(t, CheckSecret(hash, "wrong"))
	require.False(t, CheckSecret("", "open-sesame"))
}
