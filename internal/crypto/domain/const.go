// Package domain defines the cryptographic vocabulary of the vault: supported
// AEAD algorithms, key-derivation parameters and the sealed record envelope.
package domain

// Algorithm represents the AEAD cipher used to seal a vault record.
//
// Both algorithms use a 256-bit key, a 12-byte random nonce and a 16-byte
// authentication tag, so a record sealed with either one has the same security
// level. The algorithm is recorded in the envelope header, which lets a vault
// switch algorithms for new writes while still reading older records.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware
	// acceleration is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Key-derivation parameters. They are compile-time constants: changing any of
// them makes every existing vault unreadable, so they only move with a
// redeployment and a migration plan.
const (
	// KDFIterations is the PBKDF2-HMAC-SHA256 iteration count.
	KDFIterations = 100_000

	// KeySize is the length in bytes of derived keys.
	KeySize = 32

	// SaltSize is the length in bytes of the persisted vault salt.
	SaltSize = 16
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
