// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the API server binds to.
	ServerHost string
	// ServerPort is the port the API server listens on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// VaultDir is the directory holding salt.key and api_keys.enc.
	VaultDir string
	// VaultAlgorithm is the AEAD used when a record is written ("aes-gcm" or "chacha20-poly1305").
	VaultAlgorithm string
	// VaultStrictAuth reports wrong passwords as authentication failures instead of "not found".
	VaultStrictAuth bool

	// RateLimitEnabled enables the per-IP limiter on the key-management routes.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate allowed per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size allowed per IP.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	VisionBaseURL string
	VisionModel   string
	VisionTimeout time.Duration
	// VisionProxy overrides HTTPS_PROXY/HTTP_PROXY for the vision client.
	VisionProxy string

	// BackupKMSKeyURI is the default gocloud.dev/secrets keeper URI for backups.
	BackupKMSKeyURI string

	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 5000),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Vault
		VaultDir:        env.GetString("VAULT_DIR", ".secure_config"),
		VaultAlgorithm:  env.GetString("VAULT_ALGORITHM", "aes-gcm"),
		VaultStrictAuth: env.GetBool("VAULT_STRICT_AUTH", false),

		// Rate Limiting (key-management routes, IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 2.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 5),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "credvault"),
		MetricsPort:      env.GetInt("METRICS_PORT", 5001),

		// Vision client
		VisionBaseURL: env.GetString("VISION_BASE_URL", "https://api.openai.com/v1"),
		VisionModel:   env.GetString("VISION_MODEL", "gpt-4o-mini"),
		VisionTimeout: env.GetDuration("VISION_TIMEOUT_SECONDS", 30, time.Second),
		VisionProxy:   env.GetString("OPENAI_HTTP_PROXY", ""),

		// Backups
		BackupKMSKeyURI: env.GetString("BACKUP_KMS_KEY_URI", ""),

		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file from the current directory up to the
// filesystem root and loads the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
