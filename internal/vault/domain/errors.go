package domain

import (
	"github.com/ugcforge/credvault/internal/errors"
)

// Vault error definitions.
var (
	// ErrCredentialNotFound indicates the service has no stored credential, the
	// vault holds no record yet, or (in compatibility mode) the record could not
	// be opened with the supplied password.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrInvalidServiceName indicates an empty or blank service name.
	ErrInvalidServiceName = errors.Wrap(errors.ErrInvalidInput, "invalid service name")

	// ErrPasswordRequired indicates no password was supplied and none could be
	// resolved from the environment.
	ErrPasswordRequired = errors.Wrap(errors.ErrInvalidInput, "password required")

	// ErrInvalidSecret indicates a secret that is not valid UTF-8 and would not
	// survive the JSON encoding of the record unchanged.
	ErrInvalidSecret = errors.Wrap(errors.ErrInvalidInput, "secret is not valid UTF-8")

	// ErrInvalidSalt indicates salt.key exists but has the wrong length. The
	// vault cannot recover from this on its own.
	ErrInvalidSalt = errors.New("invalid vault salt")

	// ErrSaltNotFound indicates salt.key does not exist.
	ErrSaltNotFound = errors.Wrap(errors.ErrNotFound, "vault salt not found")

	// ErrSaltExists indicates another writer created salt.key first.
	ErrSaltExists = errors.Wrap(errors.ErrConflict, "vault salt already exists")

	// ErrRecordNotFound indicates api_keys.enc does not exist.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "vault record not found")

	// ErrInvalidBackup indicates a backup document is malformed.
	ErrInvalidBackup = errors.Wrap(errors.ErrInvalidInput, "invalid backup")

	// ErrBackupKeyRequired indicates no KMS key URI was given for a backup.
	ErrBackupKeyRequired = errors.Wrap(errors.ErrInvalidInput, "backup key uri required")
)
