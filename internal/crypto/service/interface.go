// Package service implements the cryptographic primitives of the vault:
// password-based key derivation, AEAD ciphers, envelope sealing and KMS keepers
// used to wrap backups.
package service

import (
	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver turns a password and a salt into a symmetric key.
//
// Implementations must be deterministic: the same (password, salt) pair always
// yields the same key.
type KeyDeriver interface {
	DeriveKey(password string, salt []byte) ([]byte, error)
}

// Sealer seals and opens vault records with a derived key.
type Sealer interface {
	// Seal encrypts plaintext under key with the sealer's configured algorithm.
	Seal(key, plaintext []byte) (cryptoDomain.Envelope, error)

	// Open authenticates and decrypts env. Any failure wraps
	// cryptoDomain.ErrDecryptionFailed.
	Open(key []byte, env cryptoDomain.Envelope) ([]byte, error)
}
