package security

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// DefaultSecretLen is the byte length of generated refresh secrets.
const DefaultSecretLen = 32

// GenerateSecret returns a URL-safe opaque secret of nBytes random bytes
// (base64url, no padding). nBytes <= 0 uses DefaultSecretLen.
func GenerateSecret(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = DefaultSecretLen
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateID returns a unique identifier for session ids and token jtis.
func GenerateID() string {
	return uuid.New().String()
}
