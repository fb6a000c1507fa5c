package user

import (
	"crypto/rand"
	"encoding/hex"
)

// newTokenKey returns 2n hex characters of random token material.
// Activation and reset tokens use n=16 (32 hex chars); API tokens n=20.
func newTokenKey(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b)
}
