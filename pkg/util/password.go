package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	// bcrypt ignores everything past this many bytes
	MaxPasswordBytes = 72
)

var ErrPasswordTooLong = errors.New("password must not exceed 72 bytes")

// HashPassword returns the bcrypt hash of password. Passwords longer than
// MaxPasswordBytes are rejected rather than silently truncated.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hashedPassword
func VerifyPassword(hashedPassword, password string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
