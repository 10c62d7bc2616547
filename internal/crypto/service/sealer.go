package service

import (
	"fmt"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

// EnvelopeSealer implements Sealer on top of an AEADManager.
//
// New envelopes use the configured algorithm; Open uses whatever algorithm the
// envelope names, so records written before an algorithm switch stay readable.
type EnvelopeSealer struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelopeSealer creates a sealer writing envelopes with alg.
func NewEnvelopeSealer(aeadManager AEADManager, alg cryptoDomain.Algorithm) *EnvelopeSealer {
	return &EnvelopeSealer{
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// Seal encrypts plaintext, binding the envelope header as AAD.
func (s *EnvelopeSealer) Seal(key, plaintext []byte) (cryptoDomain.Envelope, error) {
	cipher, err := s.aeadManager.CreateCipher(key, s.algorithm)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, cryptoDomain.HeaderFor(s.algorithm))
	if err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to seal record: %w", err)
	}

	return cryptoDomain.Envelope{
		Algorithm:  s.algorithm,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Open authenticates and decrypts env with key.
func (s *EnvelopeSealer) Open(key []byte, env cryptoDomain.Envelope) ([]byte, error) {
	cipher, err := s.aeadManager.CreateCipher(key, env.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}

	plaintext, err := cipher.Decrypt(env.Ciphertext, env.Nonce, env.Header())
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
