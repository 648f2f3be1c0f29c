package stt_streaming

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": "client",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	t.Run("empty token rejected", func(t *testing.T) {
		err := validateToken("", "")
		assert.ErrorIs(t, err, errTokenRequired)
	})

	t.Run("any non-empty token accepted without secret", func(t *testing.T) {
		assert.NoError(t, validateToken("dev-token", ""))
	})

	t.Run("valid HS256 token accepted", func(t *testing.T) {
		tok := signedToken(t, "secret", jwt.SigningMethodHS256)
		assert.NoError(t, validateToken(tok, "secret"))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		tok := signedToken(t, "other-secret", jwt.SigningMethodHS256)
		err := validateToken(tok, "secret")
		assert.ErrorIs(t, err, errTokenInvalid)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		err := validateToken("not-a-jwt", "secret")
		assert.ErrorIs(t, err, errTokenInvalid)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		assert.ErrorIs(t, validateToken(signed, "secret"), errTokenInvalid)
	})

	t.Run("non-HMAC signing method rejected", func(t *testing.T) {
		// Token claiming alg=none must not pass HMAC validation.
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "client"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		assert.ErrorIs(t, validateToken(signed, "secret"), errTokenInvalid)
	})
}
