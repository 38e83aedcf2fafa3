package secrets

import "errors"

var (
	// ErrInvalidKey is returned when a key is not exactly KeySize bytes.
	ErrInvalidKey = errors.New("invalid key size")
	// ErrKeyDerivation is returned when HKDF expansion fails.
	ErrKeyDerivation = errors.New("key derivation failed")
	// ErrEncryptionFailed is returned when sealing a payload fails.
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrDecryptionFailed is returned for wrong keys, truncated input,
	// or tampered ciphertext. The cause is deliberately not distinguished.
	ErrDecryptionFailed = errors.New("decryption failed")
)
