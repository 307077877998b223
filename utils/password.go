package utils

import (
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

const MinPasswordLength = 6

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// HashPassword returns an encoded argon2id hash that carries its own salt
// and parameters.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	cfg := argon2.DefaultConfig()
	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches encodedHash. Accounts
// created through an OAuth provider have no hash and never match.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
