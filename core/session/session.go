package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// metadataMaxValueLen caps a single sanitized metadata value.
const metadataMaxValueLen = 256

// Session is one tracked user session. The Data type parameter carries
// application-specific payload (cart contents, draft state, UI flags).
type Session[Data any] struct {
	// ID is the stable unique session identifier.
	ID uuid.UUID `json:"id"`

	// Token is the cryptographically secure session token
	// (32 bytes, base64url). This is what callers present as a principal.
	Token string `json:"token"`

	// Fingerprint is the full environment fingerprint captured at
	// creation (format: v1:hash).
	Fingerprint string `json:"fingerprint"`

	// EnvSignature is the reduced, stable-signal fingerprint captured at
	// creation. It drifts less than Fingerprint and carries a smaller
	// score penalty when it does.
	EnvSignature string `json:"env_signature"`

	// Metadata holds sanitized caller-supplied annotations.
	Metadata map[string]string `json:"metadata"`

	// Data holds the application-specific payload.
	Data Data `json:"data"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`

	// Active is false once the session is invalidated or evicted by the
	// session cap. Inactive-but-not-invalidated sessions keep Active=true
	// until something flips it.
	Active bool `json:"active"`
}

// Expired reports whether the session has outlived maxAge at the given instant.
func (s Session[Data]) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.CreatedAt) > maxAge
}

// Idle reports whether the session has seen no activity within timeout.
func (s Session[Data]) Idle(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// generateToken creates a cryptographically secure random token using
// 32 bytes (256 bits) encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
