// Package secrets provides AES-256-GCM authenticated encryption with
// compound key derivation for sealed session payloads.
//
// Session records persisted to a shared store carry a sealed payload. The
// original system obfuscated this payload reversibly; this package replaces
// that with genuine authenticated encryption, so a store reader can neither
// inspect nor undetectably modify a payload.
//
// Keys are derived with HKDF from two inputs:
//
//   - Application key: global secret shared across the application
//   - Scope key: per-origin or per-tenant secret
//
// The compound derivation isolates scopes from one another while keeping a
// single application-wide root secret.
//
// Basic usage:
//
//	appKey, _ := secrets.GenerateKey()
//	scopeKey, _ := secrets.GenerateKey()
//
//	sealed, err := secrets.EncryptString(appKey, scopeKey, `{"cart":["cv-review"]}`)
//	if err != nil {
//		return err
//	}
//
//	plain, err := secrets.DecryptString(appKey, scopeKey, sealed)
//	if errors.Is(err, secrets.ErrDecryptionFailed) {
//		// wrong keys or tampered ciphertext
//	}
//
// EncryptString output is base64url; Encrypt/Decrypt operate on raw bytes.
// Nonces are random per message, so encrypting the same plaintext twice
// yields different ciphertexts.
package secrets
