// Package utils provides hashing and secret-generation helpers shared by
// the auth and password-reset flows.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password in constant
// time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewRefreshSecret returns the opaque refresh token string handed to the
// client.  Two concatenated UUIDs give 256 bits of randomness; only the
// SHA-256 hash of this value is ever stored.
func NewRefreshSecret() string {
	return uuid.NewString() + uuid.NewString()
}

// HashSecret returns the hex-encoded SHA-256 digest of a secret.  Storing
// only the hash keeps a leaked sessions table from being replayable.
func HashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewOTP returns a zero-padded six-digit one-time code from crypto/rand.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
