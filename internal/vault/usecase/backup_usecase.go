package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	cryptoService "github.com/ugcforge/credvault/internal/crypto/service"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// backupUseCase implements BackupUseCase on top of a VaultUseCase and a KMS
// keeper. The backup is independent of the vault password and salt, so it
// survives a lost salt.key or a password change.
type backupUseCase struct {
	vault         VaultUseCase
	kmsService    cryptoService.KMSService
	defaultKeyURI string
	logger        *slog.Logger
}

// Export reads the full credential set and seals it with the keeper.
func (b *backupUseCase) Export(ctx context.Context, password, keyURI string) (*vaultDomain.Backup, error) {
	keyURI, err := b.resolveKeyURI(keyURI)
	if err != nil {
		return nil, err
	}

	creds, err := b.vault.Snapshot(ctx, password)
	if err != nil {
		return nil, err
	}

	plaintext, err := creds.Encode()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	keeper, err := b.kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer b.closeKeeper(keeper)

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt backup: %w", err)
	}

	backup := &vaultDomain.Backup{
		ID:           uuid.Must(uuid.NewV7()),
		CreatedAt:    time.Now().UTC(),
		ServiceCount: len(creds),
		Ciphertext:   ciphertext,
	}

	b.logger.Info("vault backup exported",
		slog.String("backup_id", backup.ID.String()),
		slog.Int("service_count", backup.ServiceCount),
	)
	return backup, nil
}

// Import opens backup with the keeper and merges it into the vault.
func (b *backupUseCase) Import(
	ctx context.Context,
	backup *vaultDomain.Backup,
	password, keyURI string,
) (int, error) {
	if err := backup.Validate(); err != nil {
		return 0, err
	}

	keyURI, err := b.resolveKeyURI(keyURI)
	if err != nil {
		return 0, err
	}

	keeper, err := b.kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return 0, err
	}
	defer b.closeKeeper(keeper)

	plaintext, err := keeper.Decrypt(ctx, backup.Ciphertext)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	defer cryptoDomain.Zero(plaintext)

	creds, err := vaultDomain.DecodeCredentials(plaintext)
	if err != nil {
		return 0, err
	}

	n, err := b.vault.StoreAll(ctx, creds, password)
	if err != nil {
		return 0, err
	}

	b.logger.Info("vault backup imported",
		slog.String("backup_id", backup.ID.String()),
		slog.Int("service_count", n),
	)
	return n, nil
}

func (b *backupUseCase) resolveKeyURI(keyURI string) (string, error) {
	if keyURI != "" {
		return keyURI, nil
	}
	if b.defaultKeyURI != "" {
		return b.defaultKeyURI, nil
	}
	return "", vaultDomain.ErrBackupKeyRequired
}

func (b *backupUseCase) closeKeeper(keeper cryptoDomain.KMSKeeper) {
	if err := keeper.Close(); err != nil {
		b.logger.Warn("failed to close KMS keeper", slog.Any("error", err))
	}
}

// NewBackupUseCase creates a backup use case. defaultKeyURI is used when
// callers pass an empty key URI.
func NewBackupUseCase(
	vault VaultUseCase,
	kmsService cryptoService.KMSService,
	defaultKeyURI string,
	logger *slog.Logger,
) BackupUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &backupUseCase{
		vault:         vault,
		kmsService:    kmsService,
		defaultKeyURI: defaultKeyURI,
		logger:        logger,
	}
}
