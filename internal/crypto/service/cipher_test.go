package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

func newCiphers(t *testing.T, key []byte) map[string]AEAD {
	t.Helper()

	aesCipher, err := NewAESGCM(key)
	require.NoError(t, err)

	chachaCipher, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)

	return map[string]AEAD{
		"AES-GCM":           aesCipher,
		"ChaCha20-Poly1305": chachaCipher,
	}
}

func TestNewCiphers_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 24, 64} {
		aesCipher, err := NewAESGCM(make([]byte, size))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, aesCipher)

		chachaCipher, err := NewChaCha20Poly1305(make([]byte, size))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, chachaCipher)
	}
}

func TestCiphers_RoundTrip(t *testing.T) {
	inputs := []struct {
		name      string
		plaintext []byte
		aad       []byte
	}{
		{name: "api key", plaintext: []byte("sk-proj-abc123"), aad: []byte("v1:aes-gcm")},
		{name: "empty plaintext", plaintext: []byte{}, aad: []byte("v1:aes-gcm")},
		{name: "no aad", plaintext: []byte(`{"openai":"sk-1"}`)},
		{name: "unicode", plaintext: []byte("clé-секрет-密钥-🔐"), aad: []byte("unicode")},
		{name: "large", plaintext: bytes.Repeat([]byte("x"), 64*1024), aad: []byte("large")},
	}

	for name, cipher := range newCiphers(t, randomKey(t)) {
		for _, in := range inputs {
			t.Run(name+"/"+in.name, func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt(in.plaintext, in.aad)
				require.NoError(t, err)
				assert.Len(t, nonce, 12)
				assert.Len(t, ciphertext, len(in.plaintext)+16)

				decrypted, err := cipher.Decrypt(ciphertext, nonce, in.aad)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(in.plaintext, decrypted))
			})
		}
	}
}

func TestCiphers_FreshNoncePerCall(t *testing.T) {
	for name, cipher := range newCiphers(t, randomKey(t)) {
		t.Run(name, func(t *testing.T) {
			ct1, nonce1, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			ct2, nonce2, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)

			assert.NotEqual(t, nonce1, nonce2)
			assert.NotEqual(t, ct1, ct2)
		})
	}
}

func TestCiphers_RejectTampering(t *testing.T) {
	plaintext := []byte("sk-secret")
	aad := []byte("v1:aes-gcm")

	for name, cipher := range newCiphers(t, randomKey(t)) {
		t.Run(name+"/flipped ciphertext bit", func(t *testing.T) {
			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			ciphertext[0] ^= 0x01

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			assert.Error(t, err)
			assert.Nil(t, decrypted)
		})

		t.Run(name+"/different aad", func(t *testing.T) {
			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)

			_, err = cipher.Decrypt(ciphertext, nonce, []byte("v1:chacha20-poly1305"))
			assert.Error(t, err)
		})

		t.Run(name+"/wrong nonce length", func(t *testing.T) {
			ciphertext, _, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)

			_, err = cipher.Decrypt(ciphertext, make([]byte, 8), aad)
			assert.Error(t, err)
		})

		t.Run(name+"/truncated ciphertext", func(t *testing.T) {
			_, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)

			_, err = cipher.Decrypt([]byte{0x01, 0x02}, nonce, aad)
			assert.Error(t, err)
		})
	}

	t.Run("different key", func(t *testing.T) {
		sealer := newCiphers(t, randomKey(t))["AES-GCM"]
		opener := newCiphers(t, randomKey(t))["AES-GCM"]

		ciphertext, nonce, err := sealer.Encrypt(plaintext, aad)
		require.NoError(t, err)

		_, err = opener.Decrypt(ciphertext, nonce, aad)
		assert.Error(t, err)
	})
}
