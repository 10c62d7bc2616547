package domain

import (
	"time"

	"github.com/google/uuid"
)

// Backup is a portable copy of the credential set, sealed by a KMS keeper
// instead of the vault password.
type Backup struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ServiceCount int       `json:"service_count"`
	// Ciphertext is the keeper-encrypted JSON credential set; base64 in JSON.
	Ciphertext []byte `json:"ciphertext"`
}

// Validate checks the fields Import depends on.
func (b *Backup) Validate() error {
	if b == nil || b.ID == uuid.Nil || len(b.Ciphertext) == 0 {
		return ErrInvalidBackup
	}
	return nil
}
