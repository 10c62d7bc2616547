package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jellydator/validation"

	customValidation "github.com/ugcforge/credvault/internal/validation"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// RunStoreKey adds or replaces the key of one service.
func RunStoreKey(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	service string,
) error {
	service = strings.ToLower(strings.TrimSpace(service))
	if err := validateServiceName(service); err != nil {
		return err
	}

	password, err := masterPassword(prompter)
	if err != nil {
		return err
	}

	apiKey, err := prompter.Secret(fmt.Sprintf("Enter %s API key: ", service))
	if err != nil {
		return err
	}
	apiKey = strings.TrimSpace(apiKey)

	err = validation.Validate(apiKey,
		validation.Required,
		validation.When(service == vaultDomain.DefaultService, customValidation.OpenAIKeyFormat),
	)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	if err := useCase.Store(ctx, service, apiKey, password); err != nil {
		return fmt.Errorf("failed to store %s API key: %w", service, err)
	}

	_, _ = fmt.Fprintf(writer, "[OK] %s API key stored successfully!\n", service)
	return nil
}

func validateServiceName(service string) error {
	err := validation.Validate(service, validation.Required, customValidation.ServiceName)
	return customValidation.WrapValidationError(err)
}
