package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: at_<secret>
// Example: at_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretBytes is the entropy of a session token.
	TokenSecretBytes = 32
)

var (
	// ErrInvalidTokenFormat indicates the token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^at_[a-f0-9]{64}$`)
)

// GenerateSessionToken creates a new opaque bearer token. The caller stores
// only its QuickHash; the plaintext is returned to the client once.
func GenerateSessionToken() (string, error) {
	secret := make([]byte, TokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return "at_" + hex.EncodeToString(secret), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
// Rejecting malformed tokens early avoids pointless cache lookups.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
