package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims gojwt.Claims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	token := signedToken(t, SessionClaims{
		UserID:   "u-1",
		Username: "ada",
		Role:     "student",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "student", claims.Role)
}

func TestInspect_NotAJWT(t *testing.T) {
	_, err := Inspect("opaque-session-token")
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Now()

	t.Run("future expiry is live", func(t *testing.T) {
		token := signedToken(t, gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		})
		assert.False(t, Expired(token, now))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		token := signedToken(t, gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(now.Add(-time.Minute)),
		})
		assert.True(t, Expired(token, now))
	})

	t.Run("token without exp claim is treated as live", func(t *testing.T) {
		token := signedToken(t, gojwt.RegisteredClaims{Subject: "u-1"})
		assert.False(t, Expired(token, now))
	})

	t.Run("opaque token is treated as live", func(t *testing.T) {
		// The server owns validity for tokens we cannot read
		assert.False(t, Expired("opaque-session-token", now))
	})
}
