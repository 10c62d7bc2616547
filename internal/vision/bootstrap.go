package vision

import (
	"context"
	"log/slog"
)

// Service is the credential service name the vision key is stored under.
const Service = "openai"

// KeyResolver resolves a stored API key; VaultUseCase satisfies it.
type KeyResolver interface {
	Retrieve(ctx context.Context, service, password string) (string, error)
}

// Bootstrap builds the process-wide client. The key comes from the
// OPENAI_API_KEY override or from the vault opened with API_KEY_PASSWORD; when
// neither yields a key the client starts unconfigured and startup continues.
func Bootstrap(ctx context.Context, resolver KeyResolver, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	apiKey, err := resolver.Retrieve(ctx, Service, "")
	if err != nil {
		logger.Warn("vision api key unavailable, starting unconfigured", slog.Any("error", err))
		apiKey = ""
	}

	client, err := NewClient(apiKey, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("vision client initialized",
		slog.String("state", client.State().String()),
		slog.String("model", client.Model()),
	)
	return client, nil
}
