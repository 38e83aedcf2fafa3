package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	version = "v1:"
	// hashLen uses 16 bytes (128 bits) for balance between uniqueness and
	// storage efficiency. SHA-256 provides 256 bits, but 128 bits is
	// sufficient for continuity checks and halves the stored size.
	hashLen = 16
	// totalLen is the full fingerprint string length:
	// 3 bytes ("v1:") + 32 bytes (hex encoding of 16 bytes).
	totalLen = 35
)

var (
	// ErrInvalidFingerprint indicates the stored fingerprint has invalid format.
	ErrInvalidFingerprint = errors.New("invalid fingerprint format")

	// ErrMismatch indicates the fingerprint doesn't match the current environment.
	// This could indicate session hijacking or a legitimate change to the
	// client's configuration.
	ErrMismatch = errors.New("fingerprint mismatch")
)

// Signal is a single named environment observation.
type Signal struct {
	Name  string
	Value string
}

// SignalProvider supplies the environment signals a fingerprint is
// computed from. Implementations must return signals in a stable order;
// the hash is order-sensitive.
type SignalProvider interface {
	Signals() []Signal
}

// SignalProviderFunc adapts a plain function to the SignalProvider interface.
type SignalProviderFunc func() []Signal

func (f SignalProviderFunc) Signals() []Signal { return f() }

// Generate computes a version-prefixed fingerprint over the provider's
// signals. Empty-valued signals are skipped so a missing signal hashes the
// same as an absent one.
func Generate(p SignalProvider, opts ...Option) string {
	o := applyOptions(opts...)

	var parts []string
	for _, sig := range p.Signals() {
		if o.excluded[sig.Name] || sig.Value == "" {
			continue
		}
		// Name=value pairs joined with a pipe prevent collisions where
		// adjacent values could otherwise concatenate ambiguously.
		parts = append(parts, sig.Name+"="+sig.Value)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return version + hex.EncodeToString(sum[:hashLen])
}

// Validate compares the current environment's fingerprint with a stored one.
// Returns nil on match, ErrMismatch on divergence, ErrInvalidFingerprint if
// the stored value is malformed.
//
// Use the same options that generated the stored fingerprint, otherwise
// validation fails even in an unchanged environment.
func Validate(p SignalProvider, stored string, opts ...Option) error {
	if !strings.HasPrefix(stored, version) || len(stored) != totalLen {
		return ErrInvalidFingerprint
	}

	if Generate(p, opts...) != stored {
		return ErrMismatch
	}

	return nil
}

// options configures which signals participate in the hash.
type options struct {
	excluded map[string]bool
}

// Option is a functional option for configuring fingerprint generation.
type Option func(*options)

// Exclude removes named signals from the fingerprint. Useful for signals
// known to be volatile in a particular deployment (e.g. viewport geometry
// on a resizable client).
func Exclude(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.excluded[n] = true
		}
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{excluded: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
