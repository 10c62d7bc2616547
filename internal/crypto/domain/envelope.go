package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EnvelopeVersion is the only envelope layout this build writes and reads.
const EnvelopeVersion = "v1"

// Envelope is the on-disk representation of a sealed vault record.
//
// It serializes to a single line: "v1:<algorithm>:<nonce-base64>:<ciphertext-base64>".
// The "v1:<algorithm>" prefix is returned by Header and is bound to the
// ciphertext as additional authenticated data, so rewriting the algorithm or
// version in the file makes decryption fail.
type Envelope struct {
	Algorithm  Algorithm
	Nonce      []byte
	Ciphertext []byte
}

// Header returns the authenticated prefix of the envelope.
func (e Envelope) Header() []byte {
	return HeaderFor(e.Algorithm)
}

// HeaderFor returns the additional authenticated data used when sealing with alg.
func HeaderFor(alg Algorithm) []byte {
	return []byte(EnvelopeVersion + ":" + string(alg))
}

// String serializes the envelope. It round-trips with ParseEnvelope.
func (e Envelope) String() string {
	return fmt.Sprintf(
		"%s:%s:%s:%s",
		EnvelopeVersion,
		e.Algorithm,
		base64.StdEncoding.EncodeToString(e.Nonce),
		base64.StdEncoding.EncodeToString(e.Ciphertext),
	)
}

// ParseEnvelope parses the text produced by Envelope.String.
//
// Surrounding whitespace is ignored. Every failure wraps ErrInvalidEnvelope.
func ParseEnvelope(content string) (Envelope, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 4 {
		return Envelope{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrInvalidEnvelope, len(parts))
	}

	if parts[0] != EnvelopeVersion {
		return Envelope{}, fmt.Errorf("%w: unknown version %q", ErrInvalidEnvelope, parts[0])
	}

	alg, err := ParseAlgorithm(parts[1])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidEnvelope, parts[1])
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(nonce) == 0 {
		return Envelope{}, fmt.Errorf("%w: bad nonce", ErrInvalidEnvelope)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: bad ciphertext", ErrInvalidEnvelope)
	}

	return Envelope{
		Algorithm:  alg,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}
