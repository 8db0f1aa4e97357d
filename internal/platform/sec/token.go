// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken returns a cryptographically random opaque token built
// from byteLength bytes of entropy, rendered as a URL-safe string.
//
// # Security
//
// Refresh tokens are random rather than signed: they carry no claims, so a
// stolen database dump of their hashes reveals nothing usable. The raw value
// exists only transiently between generation and delivery to the client.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken computes the deterministic SHA-256 digest of an opaque token.
//
// Only this digest is ever persisted or compared; raw token values are never
// stored or logged. This mirrors the password-hash discipline for credentials.
func HashToken(rawToken string) string {
	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
