package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken returns a random opaque token of n bytes, hex-encoded.
func NewRefreshToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
