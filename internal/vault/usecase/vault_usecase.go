package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	cryptoService "github.com/ugcforge/credvault/internal/crypto/service"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// Options configures a vault use case.
type Options struct {
	// StrictAuth reports authentication failures as cryptoDomain.ErrDecryptionFailed
	// on every path and makes Store refuse to overwrite a record it cannot open.
	// When false, read paths report not found (wrapping the decryption failure),
	// List returns an empty slice and Store starts from an empty set.
	StrictAuth bool

	// LookupEnv resolves environment overrides. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// vaultUseCase implements VaultUseCase. It keeps no key material or decrypted
// mappings between calls.
type vaultUseCase struct {
	repo       VaultRepository
	keyDeriver cryptoService.KeyDeriver
	sealer     cryptoService.Sealer
	logger     *slog.Logger
	strictAuth bool
	lookupEnv  func(string) (string, bool)
}

// DeriveKey loads the salt, creating and persisting it when absent, and runs
// the KDF. Only storage failures make it fail.
func (v *vaultUseCase) DeriveKey(ctx context.Context, password string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	salt, err := v.loadOrCreateSalt(ctx)
	if err != nil {
		return nil, err
	}

	return v.keyDeriver.DeriveKey(password, salt)
}

// Store inserts or overwrites service's secret and rewrites the record.
func (v *vaultUseCase) Store(ctx context.Context, service, secret, password string) error {
	if err := vaultDomain.ValidateServiceName(service); err != nil {
		return err
	}
	if password == "" {
		return vaultDomain.ErrPasswordRequired
	}
	if !utf8.ValidString(secret) {
		return vaultDomain.ErrInvalidSecret
	}

	key, err := v.DeriveKey(ctx, password)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	creds, err := v.loadForWrite(ctx, key, v.strictAuth)
	if err != nil {
		return err
	}

	creds[service] = secret
	if err := v.persist(ctx, key, creds); err != nil {
		return err
	}

	v.logger.Info("credential stored", slog.String("service", service))
	return nil
}

// Retrieve resolves service's secret. The first match wins:
//  1. the environment variable vaultDomain.EnvVarName(service);
//  2. the vault record, opened with password or, when password is empty,
//     with the vaultDomain.FallbackPasswordEnv variable.
func (v *vaultUseCase) Retrieve(ctx context.Context, service, password string) (string, error) {
	if err := vaultDomain.ValidateServiceName(service); err != nil {
		return "", err
	}

	if value, ok := v.lookupEnv(vaultDomain.EnvVarName(service)); ok && value != "" {
		return value, nil
	}

	if password == "" {
		password, _ = v.lookupEnv(vaultDomain.FallbackPasswordEnv)
	}

	content, err := v.repo.ReadRecord(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrRecordNotFound) {
			return "", vaultDomain.ErrCredentialNotFound
		}
		return "", err
	}

	if password == "" {
		return "", fmt.Errorf("%w: %w", vaultDomain.ErrCredentialNotFound, vaultDomain.ErrPasswordRequired)
	}

	creds, err := v.openExisting(ctx, content, password)
	if err != nil {
		return "", v.authFailure(err)
	}

	secret, ok := creds[service]
	if !ok {
		return "", vaultDomain.ErrCredentialNotFound
	}
	return secret, nil
}

// List returns the stored service names in ascending order. An absent record
// yields an empty slice.
func (v *vaultUseCase) List(ctx context.Context, password string) ([]string, error) {
	if password == "" {
		return nil, vaultDomain.ErrPasswordRequired
	}

	content, err := v.repo.ReadRecord(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	creds, err := v.openExisting(ctx, content, password)
	if err != nil {
		if !errors.Is(err, cryptoDomain.ErrDecryptionFailed) || v.strictAuth {
			return nil, err
		}
		v.logger.Warn("vault record could not be opened, listing no services")
		return []string{}, nil
	}

	return creds.Services(), nil
}

// Delete removes service's secret. The remaining set is persisted even when
// it becomes empty.
func (v *vaultUseCase) Delete(ctx context.Context, service, password string) error {
	if err := vaultDomain.ValidateServiceName(service); err != nil {
		return err
	}
	if password == "" {
		return vaultDomain.ErrPasswordRequired
	}

	content, err := v.repo.ReadRecord(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrRecordNotFound) {
			return vaultDomain.ErrCredentialNotFound
		}
		return err
	}

	key, err := v.readKey(ctx, password)
	if err != nil {
		return v.authFailure(err)
	}
	defer cryptoDomain.Zero(key)

	creds, err := v.open(key, content)
	if err != nil {
		return v.authFailure(err)
	}

	if _, ok := creds[service]; !ok {
		return vaultDomain.ErrCredentialNotFound
	}
	delete(creds, service)

	if err := v.persist(ctx, key, creds); err != nil {
		return err
	}

	v.logger.Info("credential deleted", slog.String("service", service))
	return nil
}

// Snapshot returns the full credential set. An absent record yields an empty set.
func (v *vaultUseCase) Snapshot(ctx context.Context, password string) (vaultDomain.Credentials, error) {
	if password == "" {
		return nil, vaultDomain.ErrPasswordRequired
	}

	content, err := v.repo.ReadRecord(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrRecordNotFound) {
			return vaultDomain.Credentials{}, nil
		}
		return nil, err
	}

	return v.openExisting(ctx, content, password)
}

// StoreAll merges creds into the vault with a single write.
func (v *vaultUseCase) StoreAll(ctx context.Context, creds vaultDomain.Credentials, password string) (int, error) {
	if password == "" {
		return 0, vaultDomain.ErrPasswordRequired
	}
	for service, secret := range creds {
		if err := vaultDomain.ValidateServiceName(service); err != nil {
			return 0, err
		}
		if !utf8.ValidString(secret) {
			return 0, fmt.Errorf("service %q: %w", service, vaultDomain.ErrInvalidSecret)
		}
	}

	key, err := v.DeriveKey(ctx, password)
	if err != nil {
		return 0, err
	}
	defer cryptoDomain.Zero(key)

	current, err := v.loadForWrite(ctx, key, true)
	if err != nil {
		return 0, err
	}

	for service, secret := range creds {
		current[service] = secret
	}
	if err := v.persist(ctx, key, current); err != nil {
		return 0, err
	}

	v.logger.Info("credentials imported", slog.Int("count", len(creds)))
	return len(creds), nil
}

// Status reports whether an environment override is set and whether a record exists.
func (v *vaultUseCase) Status(ctx context.Context, service string) (vaultDomain.Status, error) {
	if err := vaultDomain.ValidateServiceName(service); err != nil {
		return vaultDomain.Status{}, err
	}

	stored, err := v.repo.RecordExists(ctx)
	if err != nil {
		return vaultDomain.Status{}, err
	}

	value, ok := v.lookupEnv(vaultDomain.EnvVarName(service))
	return vaultDomain.Status{
		Service:      service,
		EnvOverride:  ok && value != "",
		RecordStored: stored,
	}, nil
}

// Ping checks that the vault storage is usable.
func (v *vaultUseCase) Ping(ctx context.Context) error {
	return v.repo.Ping(ctx)
}

// loadOrCreateSalt returns the persisted salt, creating it on first use. A
// concurrent creator wins the race and its salt is used.
func (v *vaultUseCase) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	salt, err := v.readSalt(ctx)
	if err == nil || !errors.Is(err, vaultDomain.ErrSaltNotFound) {
		return salt, err
	}

	salt = make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := v.repo.WriteSalt(ctx, salt); err != nil {
		if errors.Is(err, vaultDomain.ErrSaltExists) {
			return v.readSalt(ctx)
		}
		return nil, err
	}

	v.logger.Info("vault salt created")
	return salt, nil
}

func (v *vaultUseCase) readSalt(ctx context.Context) ([]byte, error) {
	salt, err := v.repo.ReadSalt(ctx)
	if err != nil {
		return nil, err
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, fmt.Errorf("%w: %d bytes", vaultDomain.ErrInvalidSalt, len(salt))
	}
	return salt, nil
}

// readKey derives the key for a read path. It never creates a salt: a record
// without a salt can't be opened by any password.
func (v *vaultUseCase) readKey(ctx context.Context, password string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	salt, err := v.readSalt(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrSaltNotFound) {
			return nil, fmt.Errorf("%w: salt missing", cryptoDomain.ErrDecryptionFailed)
		}
		return nil, err
	}

	return v.keyDeriver.DeriveKey(password, salt)
}

// openExisting derives the read key and opens content.
func (v *vaultUseCase) openExisting(ctx context.Context, content, password string) (vaultDomain.Credentials, error) {
	key, err := v.readKey(ctx, password)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return v.open(key, content)
}

func (v *vaultUseCase) open(key []byte, content string) (vaultDomain.Credentials, error) {
	env, err := cryptoDomain.ParseEnvelope(content)
	if err != nil {
		return nil, err
	}

	plaintext, err := v.sealer.Open(key, env)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	return vaultDomain.DecodeCredentials(plaintext)
}

// loadForWrite returns the current set for modification. An unopenable record
// is an error when strict, otherwise it is discarded with a warning.
func (v *vaultUseCase) loadForWrite(
	ctx context.Context,
	key []byte,
	strict bool,
) (vaultDomain.Credentials, error) {
	content, err := v.repo.ReadRecord(ctx)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrRecordNotFound) {
			return vaultDomain.Credentials{}, nil
		}
		return nil, err
	}

	creds, err := v.open(key, content)
	if err == nil {
		return creds, nil
	}
	if !errors.Is(err, cryptoDomain.ErrDecryptionFailed) || strict {
		return nil, err
	}

	v.logger.Warn("existing vault record could not be opened, starting from an empty credential set")
	return vaultDomain.Credentials{}, nil
}

func (v *vaultUseCase) persist(ctx context.Context, key []byte, creds vaultDomain.Credentials) error {
	plaintext, err := creds.Encode()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	env, err := v.sealer.Seal(key, plaintext)
	if err != nil {
		return err
	}

	return v.repo.WriteRecord(ctx, env.String())
}

// authFailure maps an open failure for read paths.
func (v *vaultUseCase) authFailure(err error) error {
	if !errors.Is(err, cryptoDomain.ErrDecryptionFailed) || v.strictAuth {
		return err
	}
	return fmt.Errorf("%w: %w", vaultDomain.ErrCredentialNotFound, err)
}

// NewVaultUseCase creates a vault use case.
func NewVaultUseCase(
	repo VaultRepository,
	keyDeriver cryptoService.KeyDeriver,
	sealer cryptoService.Sealer,
	logger *slog.Logger,
	opts Options,
) VaultUseCase {
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &vaultUseCase{
		repo:       repo,
		keyDeriver: keyDeriver,
		sealer:     sealer,
		logger:     logger,
		strictAuth: opts.StrictAuth,
		lookupEnv:  lookupEnv,
	}
}
