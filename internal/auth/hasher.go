// Package auth implements password hashing and access token issuance.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashVersion       = "v1"
	defaultIterations = 100_000
	saltSize          = 16
	keySize           = 32
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// PBKDF2Hasher stores hashes as "v1:<iterations>:<salt>:<key>" with
// standard base64 salt and key, deriving with HMAC-SHA256.
type PBKDF2Hasher struct {
	Iterations int
}

// NewPBKDF2Hasher returns a hasher using the production iteration count.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{Iterations: defaultIterations}
}

func (h *PBKDF2Hasher) iterations() int {
	if h == nil || h.Iterations <= 0 {
		return defaultIterations
	}
	return h.Iterations
}

// Hash derives a new salted key for password.
func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	iter := h.iterations()
	key := pbkdf2.Key([]byte(password), salt, iter, keySize, sha256.New)

	return strings.Join([]string{
		hashVersion,
		strconv.Itoa(iter),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, ":"), nil
}

// Verify reports whether password matches encoded. Malformed hashes never match.
func (h *PBKDF2Hasher) Verify(password, encoded string) bool {
	if strings.TrimSpace(encoded) == "" {
		return false
	}
	parts := strings.Split(encoded, ":")
	if len(parts) != 4 || parts[0] != hashVersion {
		return false
	}
	iter, err := strconv.Atoi(parts[1])
	if err != nil || iter <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	stored, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(stored) == 0 {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, iter, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(derived, stored) == 1
}
