package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost = 12

	// DefaultMinPasswordLen matches the admin panel policy. Length is the
	// only enforced rule; complexity requirements are left to the panel UI.
	DefaultMinPasswordLen = 6

	ResetTokenBytes = 32 // 256 bits of entropy per reset token

	tempPasswordLen     = 12
	tempPasswordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordLength enforces the minimum-length policy. minLen <= 0
// falls back to DefaultMinPasswordLen.
func ValidatePasswordLength(password string, minLen int) error {
	if minLen <= 0 {
		minLen = DefaultMinPasswordLen
	}
	if len(password) < minLen {
		return fmt.Errorf("password must be at least %d characters long", minLen)
	}
	return nil
}

// GenerateResetToken returns a URL-safe single-use token. Only its SHA-256
// hash is persisted; the plain value goes out in the reset email.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// HashResetToken hashes a plain reset token for storage and lookup.
func HashResetToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// DummyCompare runs a bcrypt comparison against a fixed throwaway hash.
// Lookup-miss paths call it so a miss pays the same hashing cost as a
// real password check and response timing does not reveal whether the
// account exists.
func DummyCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// GenerateTempPassword produces the initial password emailed to newly
// created admin users. Ambiguous characters (0/O, 1/l/I) are excluded.
func GenerateTempPassword() (string, error) {
	bytes := make([]byte, tempPasswordLen)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	for i, b := range bytes {
		bytes[i] = tempPasswordCharset[int(b)%len(tempPasswordCharset)]
	}
	return string(bytes), nil
}
