package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

func randomSalt(t *testing.T) []byte {
	t.Helper()
	salt := make([]byte, cryptoDomain.SaltSize)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	return salt
}

func TestPBKDF2KeyDeriver_DeriveKey(t *testing.T) {
	deriver := NewPBKDF2KeyDeriver()
	salt := randomSalt(t)

	t.Run("deterministic for the same password and salt", func(t *testing.T) {
		k1, err := deriver.DeriveKey("correct horse", salt)
		require.NoError(t, err)
		k2, err := deriver.DeriveKey("correct horse", salt)
		require.NoError(t, err)

		assert.Len(t, k1, cryptoDomain.KeySize)
		assert.Equal(t, k1, k2)
	})

	t.Run("different password gives a different key", func(t *testing.T) {
		k1, err := deriver.DeriveKey("password-a", salt)
		require.NoError(t, err)
		k2, err := deriver.DeriveKey("password-b", salt)
		require.NoError(t, err)

		assert.NotEqual(t, k1, k2)
	})

	t.Run("different salt gives a different key", func(t *testing.T) {
		k1, err := deriver.DeriveKey("same-password", salt)
		require.NoError(t, err)
		k2, err := deriver.DeriveKey("same-password", randomSalt(t))
		require.NoError(t, err)

		assert.NotEqual(t, k1, k2)
	})

	t.Run("empty and unicode passwords are accepted", func(t *testing.T) {
		k1, err := deriver.DeriveKey("", salt)
		require.NoError(t, err)
		assert.Len(t, k1, cryptoDomain.KeySize)

		k2, err := deriver.DeriveKey("пароль-密码", salt)
		require.NoError(t, err)
		assert.Len(t, k2, cryptoDomain.KeySize)
	})

	t.Run("salt must be 16 bytes", func(t *testing.T) {
		for _, size := range []int{0, 8, 15, 17, 32} {
			key, err := deriver.DeriveKey("password", make([]byte, size))
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSaltSize, "size %d", size)
			assert.Nil(t, key)
		}
	})
}
