package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/guardkit/pkg/secrets"
)

func testKeys(t *testing.T) (appKey, scopeKey []byte) {
	t.Helper()

	appKey, err := secrets.GenerateKey()
	require.NoError(t, err)
	scopeKey, err = secrets.GenerateKey()
	require.NoError(t, err)
	return appKey, scopeKey
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	k1, err := secrets.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, k1, secrets.KeySize)

	k2, err := secrets.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestEncryptDecryptString(t *testing.T) {
	t.Parallel()

	appKey, scopeKey := testKeys(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		plaintext := `{"session":"payload","items":[1,2,3]}`
		sealed, err := secrets.EncryptString(appKey, scopeKey, plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		decrypted, err := secrets.DecryptString(appKey, scopeKey, sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("random nonce yields distinct ciphertexts", func(t *testing.T) {
		t.Parallel()

		a, err := secrets.EncryptString(appKey, scopeKey, "same input")
		require.NoError(t, err)
		b, err := secrets.EncryptString(appKey, scopeKey, "same input")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("empty plaintext round trips", func(t *testing.T) {
		t.Parallel()

		sealed, err := secrets.EncryptString(appKey, scopeKey, "")
		require.NoError(t, err)

		decrypted, err := secrets.DecryptString(appKey, scopeKey, sealed)
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})
}

func TestDecrypt_Failures(t *testing.T) {
	t.Parallel()

	appKey, scopeKey := testKeys(t)
	sealed, err := secrets.EncryptString(appKey, scopeKey, "sensitive")
	require.NoError(t, err)

	t.Run("wrong application key", func(t *testing.T) {
		t.Parallel()

		wrongKey, _ := secrets.GenerateKey()
		_, err := secrets.DecryptString(wrongKey, scopeKey, sealed)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("wrong scope key", func(t *testing.T) {
		t.Parallel()

		wrongKey, _ := secrets.GenerateKey()
		_, err := secrets.DecryptString(appKey, wrongKey, sealed)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		t.Parallel()

		tampered := []byte(sealed)
		tampered[len(tampered)-1] ^= 0x01
		_, err := secrets.DecryptString(appKey, scopeKey, string(tampered))
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("truncated input", func(t *testing.T) {
		t.Parallel()

		_, err := secrets.DecryptString(appKey, scopeKey, "AAAA")
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Parallel()

		_, err := secrets.DecryptString(appKey, scopeKey, "not!!valid!!base64")
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})
}

func TestInvalidKeySizes(t *testing.T) {
	t.Parallel()

	short := []byte("too-short")
	full, _ := secrets.GenerateKey()

	_, err := secrets.Encrypt(short, full, []byte("x"))
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)

	_, err = secrets.Decrypt(full, short, []byte("x"))
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)
}

func TestScopeIsolation(t *testing.T) {
	t.Parallel()

	appKey, scopeA := testKeys(t)
	scopeB, err := secrets.GenerateKey()
	require.NoError(t, err)

	sealed, err := secrets.EncryptString(appKey, scopeA, "tenant data")
	require.NoError(t, err)

	_, err = secrets.DecryptString(appKey, scopeB, sealed)
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}
