// Package usecase implements the credential vault: password-derived keys,
// sealed storage of the credential set and KMS-wrapped backups.
package usecase

import (
	"context"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// VaultRepository defines persistence of the salt and the sealed record.
type VaultRepository interface {
	// ReadSalt returns vaultDomain.ErrSaltNotFound when no salt exists.
	ReadSalt(ctx context.Context) ([]byte, error)
	// WriteSalt returns vaultDomain.ErrSaltExists when a salt already exists.
	WriteSalt(ctx context.Context, salt []byte) error
	// ReadRecord returns vaultDomain.ErrRecordNotFound when no record exists.
	ReadRecord(ctx context.Context) (string, error)
	// WriteRecord atomically replaces the record.
	WriteRecord(ctx context.Context, content string) error
	RecordExists(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
}

// VaultUseCase defines the credential vault operations.
type VaultUseCase interface {
	// DeriveKey returns the key for password, creating the salt on first use.
	//
	// Security Note: callers MUST zero the returned key with cryptoDomain.Zero.
	DeriveKey(ctx context.Context, password string) ([]byte, error)
	// Store inserts or overwrites service's secret.
	Store(ctx context.Context, service, secret, password string) error
	// Retrieve resolves service's secret from the environment override, then
	// from the vault record.
	Retrieve(ctx context.Context, service, password string) (string, error)
	// List returns stored service names in ascending order.
	List(ctx context.Context, password string) ([]string, error)
	// Delete removes service's secret.
	Delete(ctx context.Context, service, password string) error
	// Snapshot returns the whole credential set. Authentication failures are
	// always errors here, whatever the strictness setting.
	Snapshot(ctx context.Context, password string) (vaultDomain.Credentials, error)
	// StoreAll merges creds into the vault in a single write and returns the
	// number of services written. Authentication failures are always errors.
	StoreAll(ctx context.Context, creds vaultDomain.Credentials, password string) (int, error)
	// Status reports where service's credential would come from without
	// needing the password.
	Status(ctx context.Context, service string) (vaultDomain.Status, error)
	// Ping checks that the vault storage is usable.
	Ping(ctx context.Context) error
}

// BackupUseCase defines export and import of KMS-wrapped backups.
type BackupUseCase interface {
	// Export seals the credential set with the keeper at keyURI. An empty
	// keyURI falls back to the configured default.
	Export(ctx context.Context, password, keyURI string) (*vaultDomain.Backup, error)
	// Import merges backup into the vault and returns the number of services
	// written.
	Import(ctx context.Context, backup *vaultDomain.Backup, password, keyURI string) (int, error)
}
