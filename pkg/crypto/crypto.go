package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// GenerateNumericCode draws a code uniformly from the full fixed-length
// numeric space and renders it with leading zeros preserved, so a 6 digit
// code is always 6 characters.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", errors.New("crypto: digits must be between 1 and 18")
	}

	bound := big.NewInt(10)
	bound.Exp(bound, big.NewInt(int64(digits)), nil)

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("crypto: generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// HashCode returns the hex-encoded SHA-256 digest of a credential value.
// Stored codes are hashed so a database leak does not expose live codes.
func HashCode(value string) string {
	digest := sha256.Sum256([]byte(value))
	return hex.EncodeToString(digest[:])
}
