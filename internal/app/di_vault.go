package app

import (
	"context"
	"fmt"

	"github.com/ugcforge/credvault/internal/http"
	vaultHTTP "github.com/ugcforge/credvault/internal/vault/http"
	vaultRepository "github.com/ugcforge/credvault/internal/vault/repository"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
	"github.com/ugcforge/credvault/internal/vision"
)

// VaultRepository returns the file repository rooted at VAULT_DIR.
func (c *Container) VaultRepository() *vaultRepository.FileRepository {
	c.vaultRepositoryInit.Do(func() {
		c.vaultRepository = vaultRepository.NewFileRepository(c.config.VaultDir)
	})
	return c.vaultRepository
}

// VaultUseCase returns the process-wide vault, wrapped with metrics when enabled.
func (c *Container) VaultUseCase() (vaultUsecase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.setInitError("vaultUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("vaultUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// BackupUseCase returns the KMS-backed backup use case.
func (c *Container) BackupUseCase() (vaultUsecase.BackupUseCase, error) {
	var err error
	c.backupUseCaseInit.Do(func() {
		c.backupUseCase, err = c.initBackupUseCase()
		if err != nil {
			c.setInitError("backupUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("backupUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.backupUseCase, nil
}

// VisionClient returns the client bootstrapped once at startup. A missing key
// yields an unconfigured client, not an error.
func (c *Container) VisionClient() (*vision.Client, error) {
	var err error
	c.visionClientInit.Do(func() {
		c.visionClient, err = c.initVisionClient()
		if err != nil {
			c.setInitError("visionClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("visionClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.visionClient, nil
}

// VisionConfig maps the VISION_* settings onto the client config.
func (c *Container) VisionConfig() vision.Config {
	return vision.Config{
		BaseURL: c.config.VisionBaseURL,
		Model:   c.config.VisionModel,
		Timeout: c.config.VisionTimeout,
		Proxy:   c.config.VisionProxy,
	}
}

func (c *Container) initVaultUseCase() (vaultUsecase.VaultUseCase, error) {
	sealer, err := c.Sealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for vault use case: %w", err)
	}

	baseUseCase := vaultUsecase.NewVaultUseCase(
		c.VaultRepository(),
		c.KeyDeriver(),
		sealer,
		c.Logger(),
		vaultUsecase.Options{StrictAuth: c.config.VaultStrictAuth},
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUsecase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initBackupUseCase() (vaultUsecase.BackupUseCase, error) {
	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for backup use case: %w", err)
	}

	return vaultUsecase.NewBackupUseCase(
		vaultUseCase,
		c.KMSService(),
		c.config.BackupKMSKeyURI,
		c.Logger(),
	), nil
}

func (c *Container) initVisionClient() (*vision.Client, error) {
	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vision client: %w", err)
	}

	client, err := vision.Bootstrap(context.Background(), vaultUseCase, c.VisionConfig(), c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap vision client: %w", err)
	}
	return client, nil
}

// newConnectionTester builds a transient vision client for test-connection.
func (c *Container) newConnectionTester(apiKey string) (vaultHTTP.ConnectionTester, error) {
	return vision.NewClient(apiKey, c.VisionConfig(), c.Logger())
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for http server: %w", err)
	}

	visionClient, err := c.VisionClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get vision client for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	vaultHandler := vaultHTTP.NewVaultHandler(vaultUseCase, visionClient, c.newConnectionTester, logger)

	server := http.NewServer(vaultUseCase, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(vaultHandler, http.RouterOptions{
		MetricsProvider:         metricsProvider,
		MetricsNamespace:        c.config.MetricsNamespace,
		CORSEnabled:             c.config.CORSEnabled,
		CORSAllowOrigins:        c.config.CORSAllowOrigins,
		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,
	})

	return server, nil
}
