// Package commands contains CLI command implementations for the application.
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ugcforge/credvault/internal/app"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
)

// ErrInputClosed is returned when stdin ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// Prompter asks questions on Writer and reads answers from Reader. Secrets
// are read with echo disabled when Reader is a terminal.
type Prompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	fd       int
	terminal bool
}

// NewPrompter creates a prompter over streams.
func NewPrompter(streams IOTuple) *Prompter {
	p := &Prompter{
		reader: bufio.NewReader(streams.Reader),
		writer: streams.Writer,
	}
	if f, ok := streams.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}
	return p
}

// Line prints prompt and returns the answer without its line ending.
func (p *Prompter) Line(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret prints prompt and reads an answer that is not echoed.
func (p *Prompter) Secret(prompt string) (string, error) {
	if !p.terminal {
		return p.Line(prompt)
	}

	_, _ = fmt.Fprint(p.writer, prompt)
	b, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.writer)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " (y/N): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// masterPassword returns API_KEY_PASSWORD when set, otherwise prompts.
func masterPassword(p *Prompter) (string, error) {
	if password := os.Getenv(vaultDomain.FallbackPasswordEnv); password != "" {
		return password, nil
	}
	return p.Secret("Enter master password: ")
}

// resolveKey returns the key for service without prompting when an
// environment override supplies it.
func resolveKey(ctx context.Context, useCase vaultUsecase.VaultUseCase, p *Prompter, service string) (string, error) {
	status, err := useCase.Status(ctx, service)
	if err != nil {
		return "", err
	}
	if status.EnvOverride {
		return useCase.Retrieve(ctx, service, "")
	}
	if !status.RecordStored {
		return "", vaultDomain.ErrCredentialNotFound
	}

	password, err := masterPassword(p)
	if err != nil {
		return "", err
	}
	return useCase.Retrieve(ctx, service, password)
}

// writeJSON writes v indented, for --format json.
func writeJSON(writer io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
