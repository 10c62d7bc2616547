package domain

import (
	"github.com/ugcforge/credvault/internal/errors"
)

// Cryptographic error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a sealed record could not be opened.
	//
	// The cause is deliberately not disclosed: a wrong password, a salt from a
	// different vault epoch, a tampered header and a corrupted ciphertext all
	// look the same to the caller.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")

	// ErrInvalidEnvelope indicates the sealed record text is malformed.
	// It wraps ErrDecryptionFailed because a corrupted file is handled exactly
	// like an authentication failure.
	ErrInvalidEnvelope = errors.Wrap(ErrDecryptionFailed, "invalid envelope")

	// ErrInvalidSaltSize indicates a salt is not exactly SaltSize bytes.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")
)
