package stt_streaming

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errTokenRequired = errors.New("token is required")
	errTokenInvalid  = errors.New("invalid token")
)

// validateToken checks the bearer token supplied in the websocket handshake.
// Without a configured secret any non-empty token is accepted. With a secret
// the token must be a valid HS256-signed JWT.
func validateToken(token, secret string) error {
	if token == "" {
		return errTokenRequired
	}
	if secret == "" {
		return nil
	}

	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errTokenInvalid, err)
	}
	return nil
}
