package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// RunListServices prints the stored service names in text or JSON.
func RunListServices(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	format string,
) error {
	password, err := masterPassword(prompter)
	if err != nil {
		return err
	}

	services, err := useCase.List(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string][]string{"services": services})
	}

	if len(services) == 0 {
		_, _ = fmt.Fprintln(writer, "No services stored yet")
		return nil
	}
	_, _ = fmt.Fprintf(writer, "Stored services: %s\n", strings.Join(services, ", "))
	return nil
}
