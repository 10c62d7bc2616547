package commands

import (
	"context"
	"fmt"
	"io"

	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
	"github.com/ugcforge/credvault/internal/vision"
)

// ConnectionTester sends a probe request with a resolved key.
type ConnectionTester interface {
	TestConnection(ctx context.Context) (string, error)
}

// RunTestConnection resolves the OpenAI key and sends a probe completion.
func RunTestConnection(
	ctx context.Context,
	useCase vaultUsecase.VaultUseCase,
	prompter *Prompter,
	writer io.Writer,
	newTester func(apiKey string) (ConnectionTester, error),
) error {
	apiKey, err := resolveKey(ctx, useCase, prompter, vision.Service)
	if err != nil {
		return fmt.Errorf("no OpenAI API key available: %w", err)
	}

	tester, err := newTester(apiKey)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "Testing OpenAI connection...")
	reply, err := tester.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI API test failed: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "[OK] OpenAI API test successful!")
	_, _ = fmt.Fprintf(writer, "Response: %s\n", reply)
	return nil
}
