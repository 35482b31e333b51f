// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex token.
//
// # Parameters
//   - byteLength: The number of random bytes. The resulting hex string is
//     twice as long (32 bytes → 64 hex characters).
//
// Used for refresh tokens, which never leave the server unhashed except in
// the login/refresh response itself.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random source: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of a token.
//
// # Why SHA-256 and not bcrypt?
//
// Refresh tokens are high-entropy random strings, so dictionary attacks do
// not apply and the slow bcrypt work factor would only add lookup latency.
// A plain digest lets the session store index by hash.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
