package service

import (
	"fmt"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

// AEADManagerService builds the cipher named in a record envelope header.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the cipher for a derived vault key. The key must be
// cryptoDomain.KeySize bytes, the PBKDF2 output length.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", cryptoDomain.ErrInvalidKeySize, len(key), cryptoDomain.KeySize)
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
}
