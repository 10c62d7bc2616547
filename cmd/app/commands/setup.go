package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jellydator/validation"

	customValidation "github.com/ugcforge/credvault/internal/validation"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
	"github.com/ugcforge/credvault/internal/vision"
)

// ErrSetupVerification is returned when the stored key cannot be read back.
var ErrSetupVerification = errors.New("stored key could not be read back")

// RunSetup walks through first-time setup: choose a master password, enter
// the OpenAI key, store it, then read it back. Invalid answers are asked
// again until stdin closes.
func RunSetup(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	logger *slog.Logger,
) error {
	_, _ = fmt.Fprintln(writer, "Secure API Key Setup")
	_, _ = fmt.Fprintln(writer, strings.Repeat("=", 40))

	_, _ = fmt.Fprintln(writer, "\n1. Create a master password to encrypt your API keys:")
	password, err := askNewPassword(prompter, writer)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "\n2. Enter your OpenAI API key:")
	_, _ = fmt.Fprintln(writer, "   (Get it from: https://platform.openai.com/api-keys)")
	apiKey, err := askOpenAIKey(prompter, writer)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "\n3. Storing API key securely...")
	if err := useCase.Store(ctx, vision.Service, apiKey, password); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	logger.Info("api key stored", slog.String("service", vision.Service))

	_, _ = fmt.Fprintln(writer, "\n4. Testing retrieval...")
	retrieved, err := useCase.Retrieve(ctx, vision.Service, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetupVerification, err)
	}
	if retrieved != apiKey {
		return fmt.Errorf("%w: OPENAI_API_KEY in the environment overrides the stored key", ErrSetupVerification)
	}

	_, _ = fmt.Fprintln(writer, "[OK] Setup complete! The API key is stored encrypted.")
	_, _ = fmt.Fprintln(writer, "\nTo use it, set API_KEY_PASSWORD=<your master password> or enter it when prompted.")
	return nil
}

func askNewPassword(prompter *Prompter, writer io.Writer) (string, error) {
	for {
		password, err := prompter.Secret("Enter master password: ")
		if err != nil {
			return "", err
		}
		if err := validation.Validate(password, customValidation.MasterPassword); err != nil {
			_, _ = fmt.Fprintf(writer, "[ERROR] %s\n", err)
			continue
		}

		confirm, err := prompter.Secret("Confirm master password: ")
		if err != nil {
			return "", err
		}
		if password != confirm {
			_, _ = fmt.Fprintln(writer, "[ERROR] Passwords don't match, try again")
			continue
		}
		return password, nil
	}
}

func askOpenAIKey(prompter *Prompter, writer io.Writer) (string, error) {
	for {
		apiKey, err := prompter.Secret("OpenAI API Key: ")
		if err != nil {
			return "", err
		}
		apiKey = strings.TrimSpace(apiKey)

		err = validation.Validate(apiKey,
			validation.Required.Error("API key cannot be empty"),
			customValidation.OpenAIKeyFormat,
		)
		if err != nil {
			_, _ = fmt.Fprintf(writer, "[ERROR] %s\n", err)
			continue
		}
		return apiKey, nil
	}
}
