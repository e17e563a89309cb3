package otp

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// CodeLength is the number of digits in an OTP code.
	CodeLength = 6

	// CodeTTL is how long a code stays valid after being sent.
	CodeTTL = 10 * time.Minute

	// MaxVerifyAttempts is the number of wrong codes allowed per challenge.
	MaxVerifyAttempts = 5

	// SendWindow and MaxSendsPerWindow rate-limit code delivery per phone.
	SendWindow        = 10 * time.Minute
	MaxSendsPerWindow = 3
)

// Challenge is a pending phone verification. Only the code hash is stored.
type Challenge struct {
	ID        string
	Phone     string
	CodeHash  string
	Attempts  int
	Verified  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be verified.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// HashCode returns the stored form of an OTP code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
