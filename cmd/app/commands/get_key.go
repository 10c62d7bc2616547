package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// RunGetKey prints the key of one service, masked unless reveal is set. An
// environment override is used without asking for the master password.
func RunGetKey(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	service string,
	reveal bool,
) error {
	service = strings.ToLower(strings.TrimSpace(service))
	if err := validateServiceName(service); err != nil {
		return err
	}

	apiKey, err := resolveKey(ctx, useCase, prompter, service)
	if err != nil {
		return fmt.Errorf("failed to read %s API key: %w", service, err)
	}

	if !reveal {
		apiKey = maskSecret(apiKey)
	}
	_, _ = fmt.Fprintln(writer, apiKey)
	return nil
}

// maskSecret keeps a short prefix and suffix so keys stay recognizable.
func maskSecret(secret string) string {
	if len(secret) <= 10 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + "..." + secret[len(secret)-4:]
}
