package output

import (
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/golang-jwt/jwt/v4"
)

const jwtSecretLength = 32

var ErrInvalidJWTSecret = errors.New("jwt secret must be 32 hex encoded bytes")

// LoadJWTSecret reads the engine API shared secret: 32 bytes as hex, 0x prefix optional.
func LoadJWTSecret(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("failed to read jwt secret: %w", err)
	}
	return ParseJWTSecret(string(raw))
}

func ParseJWTSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	secret, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Errorf("%w: %w", ErrInvalidJWTSecret, err)
	}
	if len(secret) != jwtSecretLength {
		return nil, errors.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return secret, nil
}

// NewEngineToken signs the bearer token the engine API expects: HS256 with an iat claim.
// Engines reject tokens whose iat is more than a minute off, so a token is only good right away.
func NewEngineToken(secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Errorf("failed to sign engine token: %w", err)
	}
	return signed, nil
}
