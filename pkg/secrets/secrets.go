package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required length of application and scope keys (AES-256).
	KeySize = 32

	hkdfInfo = "guardkit/secrets/v1"
)

// GenerateKey returns a cryptographically secure random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return key, nil
}

// Encrypt seals plaintext with a key derived from appKey and scopeKey.
// Output layout is nonce || ciphertext || tag.
func Encrypt(appKey, scopeKey, plaintext []byte) ([]byte, error) {
	gcm, err := newAEAD(appKey, scopeKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt. Any authentication failure,
// including truncation and tampering, yields ErrDecryptionFailed.
func Decrypt(appKey, scopeKey, sealed []byte) ([]byte, error) {
	gcm, err := newAEAD(appKey, scopeKey)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptString seals a string and encodes the result as base64url,
// suitable for string-only key-value stores.
func EncryptString(appKey, scopeKey []byte, plaintext string) (string, error) {
	sealed, err := Encrypt(appKey, scopeKey, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func DecryptString(appKey, scopeKey []byte, encoded string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := Decrypt(appKey, scopeKey, sealed)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// newAEAD derives the compound encryption key and constructs the cipher.
func newAEAD(appKey, scopeKey []byte) (cipher.AEAD, error) {
	if len(appKey) != KeySize || len(scopeKey) != KeySize {
		return nil, ErrInvalidKey
	}

	// The scope key acts as HKDF salt so different scopes derive unrelated
	// keys from the same application key.
	derived := make([]byte, KeySize)
	kdf := hkdf.New(sha256.New, appKey, scopeKey, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}

	return gcm, nil
}
