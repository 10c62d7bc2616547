package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	cryptoService "github.com/ugcforge/credvault/internal/crypto/service"
	"github.com/ugcforge/credvault/internal/errors"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	vaultUsecaseMocks "github.com/ugcforge/credvault/internal/vault/usecase/mocks"
)

func localKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestBackupUseCase_ExportImport(t *testing.T) {
	ctx := context.Background()
	keyURI := localKeyURI(t)

	source := newTestVault(t, false)
	require.NoError(t, source.Store(ctx, "openai", "sk-1", testPassword))
	require.NoError(t, source.Store(ctx, "anthropic", "sk-2", testPassword))

	exporter := NewBackupUseCase(source, cryptoService.NewKMSService(), keyURI, nil)
	backup, err := exporter.Export(ctx, testPassword, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, backup.ID)
	assert.Equal(t, 2, backup.ServiceCount)
	assert.False(t, backup.CreatedAt.IsZero())
	assert.NotContains(t, string(backup.Ciphertext), "sk-1")

	// The document survives a JSON round trip, as written by the CLI.
	data, err := json.Marshal(backup)
	require.NoError(t, err)
	var restored vaultDomain.Backup
	require.NoError(t, json.Unmarshal(data, &restored))

	// Restore into a fresh vault with a different password and salt.
	target := newTestVault(t, false)
	require.NoError(t, target.Store(ctx, "local", "keep", "new-password"))

	importer := NewBackupUseCase(target, cryptoService.NewKMSService(), "", nil)
	n, err := importer.Import(ctx, &restored, "new-password", keyURI)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	services, err := target.List(ctx, "new-password")
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic", "local", "openai"}, services)

	got, err := target.Retrieve(ctx, "openai", "new-password")
	require.NoError(t, err)
	assert.Equal(t, "sk-1", got)
}

func TestBackupUseCase_Export_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password is an error, never an empty backup", func(t *testing.T) {
		vault := newTestVault(t, false)
		require.NoError(t, vault.Store(ctx, "openai", "sk-1", testPassword))

		uc := NewBackupUseCase(vault, cryptoService.NewKMSService(), localKeyURI(t), nil)
		backup, err := uc.Export(ctx, wrongPassword, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, backup)
	})

	t.Run("no key uri", func(t *testing.T) {
		mockVault := vaultUsecaseMocks.NewMockVaultUseCase(t)
		uc := NewBackupUseCase(mockVault, cryptoService.NewKMSService(), "", nil)

		_, err := uc.Export(ctx, testPassword, "")
		assert.ErrorIs(t, err, vaultDomain.ErrBackupKeyRequired)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("invalid key uri", func(t *testing.T) {
		mockVault := vaultUsecaseMocks.NewMockVaultUseCase(t)
		mockVault.EXPECT().
			Snapshot(mock.Anything, testPassword).
			Return(vaultDomain.Credentials{"openai": "sk"}, nil).
			Once()

		uc := NewBackupUseCase(mockVault, cryptoService.NewKMSService(), "", nil)
		_, err := uc.Export(ctx, testPassword, "nope://key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestBackupUseCase_Import_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid backup document", func(t *testing.T) {
		mockVault := vaultUsecaseMocks.NewMockVaultUseCase(t)
		uc := NewBackupUseCase(mockVault, cryptoService.NewKMSService(), localKeyURI(t), nil)

		_, err := uc.Import(ctx, &vaultDomain.Backup{}, testPassword, "")
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidBackup)

		_, err = uc.Import(ctx, nil, testPassword, "")
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidBackup)
	})

	t.Run("backup sealed with another key", func(t *testing.T) {
		vault := newTestVault(t, false)
		require.NoError(t, vault.Store(ctx, "openai", "sk-1", testPassword))

		backup, err := NewBackupUseCase(vault, cryptoService.NewKMSService(), localKeyURI(t), nil).
			Export(ctx, testPassword, "")
		require.NoError(t, err)

		mockVault := vaultUsecaseMocks.NewMockVaultUseCase(t)
		uc := NewBackupUseCase(mockVault, cryptoService.NewKMSService(), localKeyURI(t), nil)
		_, err = uc.Import(ctx, backup, testPassword, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("vault rejects the merge", func(t *testing.T) {
		keyURI := localKeyURI(t)
		vault := newTestVault(t, false)
		require.NoError(t, vault.Store(ctx, "openai", "sk-1", testPassword))

		backup, err := NewBackupUseCase(vault, cryptoService.NewKMSService(), keyURI, nil).
			Export(ctx, testPassword, "")
		require.NoError(t, err)

		mockVault := vaultUsecaseMocks.NewMockVaultUseCase(t)
		mockVault.EXPECT().
			StoreAll(mock.Anything, vaultDomain.Credentials{"openai": "sk-1"}, wrongPassword).
			Return(0, cryptoDomain.ErrDecryptionFailed).
			Once()

		uc := NewBackupUseCase(mockVault, cryptoService.NewKMSService(), keyURI, nil)
		_, err = uc.Import(ctx, backup, wrongPassword, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}
