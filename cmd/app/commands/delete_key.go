package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// RunDeleteKey removes one service's key after confirmation. skipConfirm
// (--yes) deletes without asking.
func RunDeleteKey(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	service string,
	skipConfirm bool,
) error {
	service = strings.ToLower(strings.TrimSpace(service))
	if err := validateServiceName(service); err != nil {
		return err
	}

	password, err := masterPassword(prompter)
	if err != nil {
		return err
	}

	services, err := useCase.List(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	if !slices.Contains(services, service) {
		return fmt.Errorf("service %q: %w", service, vaultDomain.ErrCredentialNotFound)
	}

	if !skipConfirm {
		confirmed, err := prompter.Confirm(fmt.Sprintf("Are you sure you want to delete '%s'?", service))
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(writer, "[WARN] Deletion cancelled")
			return nil
		}
	}

	if err := useCase.Delete(ctx, service, password); err != nil {
		return fmt.Errorf("failed to delete %s API key: %w", service, err)
	}

	_, _ = fmt.Fprintf(writer, "[OK] %s deleted successfully!\n", service)
	return nil
}
