package utils

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinAdminPasswordLength is the shortest admin password HashAdminPassword accepts.
const MinAdminPasswordLength = 8

// ErrWeakPassword is returned for admin passwords shorter than MinAdminPasswordLength.
var ErrWeakPassword = errors.New("admin password is too short")

// HashAdminPassword produces the bcrypt hash expected in ADMIN_PASSWORD_HASH.
// Surrounding whitespace, typically a trailing newline from stdin, is ignored.
func HashAdminPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if len(password) < MinAdminPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
