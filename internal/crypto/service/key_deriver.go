package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

// PBKDF2KeyDeriver derives vault keys with PBKDF2-HMAC-SHA256.
//
// The iteration count is fixed at cryptoDomain.KDFIterations; every call pays
// the full cost, which is what makes offline password guessing expensive.
type PBKDF2KeyDeriver struct{}

// NewPBKDF2KeyDeriver creates a new PBKDF2KeyDeriver.
func NewPBKDF2KeyDeriver() *PBKDF2KeyDeriver {
	return &PBKDF2KeyDeriver{}
}

// DeriveKey returns a 32-byte key for (password, salt). The salt must be
// cryptoDomain.SaltSize bytes; the password is not checked for strength.
func (d *PBKDF2KeyDeriver) DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSaltSize
	}

	return pbkdf2.Key(
		[]byte(password),
		salt,
		cryptoDomain.KDFIterations,
		cryptoDomain.KeySize,
		sha256.New,
	), nil
}
