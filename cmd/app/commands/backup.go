package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// RunExportBackup writes a KMS-sealed backup document to outPath, or to
// writer when outPath is "-". An empty keyURI uses BACKUP_KMS_KEY_URI.
func RunExportBackup(
	ctx context.Context,
	backupUseCase vaultUsecase.BackupUseCase,
	prompter *Prompter,
	writer io.Writer,
	outPath string,
	keyURI string,
) error {
	password, err := masterPassword(prompter)
	if err != nil {
		return err
	}

	backup, err := backupUseCase.Export(ctx, password, keyURI)
	if err != nil {
		return fmt.Errorf("failed to export backup: %w", err)
	}

	if outPath == "-" {
		return writeJSON(writer, backup)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "[OK] Backup %s with %d services written to %s\n",
		backup.ID, backup.ServiceCount, outPath)
	return nil
}

// RunImportBackup merges the backup document at inPath into the vault.
func RunImportBackup(
	ctx context.Context,
	backupUseCase vaultUsecase.BackupUseCase,
	prompter *Prompter,
	writer io.Writer,
	inPath string,
	keyURI string,
) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	var backup vaultDomain.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: %w", vaultDomain.ErrInvalidBackup, err)
	}
	if err := backup.Validate(); err != nil {
		return err
	}

	password, err := masterPassword(prompter)
	if err != nil {
		return err
	}

	count, err := backupUseCase.Import(ctx, &backup, password, keyURI)
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "[OK] Imported %d services from backup %s\n", count, backup.ID)
	return nil
}
