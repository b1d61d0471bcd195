package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// HashPassword returns the lowercase hex SHA-256 digest of a password.
// The scheme is unsalted so digests stay compatible with previously
// stored hashes.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether a password matches a stored digest.
// Comparison is case-insensitive over the hex encoding.
func VerifyPassword(password, storedHash string) bool {
	return strings.EqualFold(HashPassword(password), storedHash)
}

// GenerateRandomPassword returns a placeholder password for accounts
// provisioned through federated login. It is hashed before storage and
// never meant to be typed by anyone.
func GenerateRandomPassword() string {
	return uuid.NewString()
}
