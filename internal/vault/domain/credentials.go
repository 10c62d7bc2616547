// Package domain defines the credential vault model: the on-disk layout, the
// decrypted credential set and the naming conventions for environment overrides.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
)

// On-disk layout and environment conventions.
const (
	// DefaultDir is the vault directory used when none is configured.
	DefaultDir = ".secure_config"

	// SaltFileName holds the 16 raw salt bytes.
	SaltFileName = "salt.key"

	// RecordFileName holds the sealed credential set.
	RecordFileName = "api_keys.enc"

	// FallbackPasswordEnv names the variable consulted by Retrieve when no
	// password is supplied.
	FallbackPasswordEnv = "API_KEY_PASSWORD"

	// EnvOverrideSuffix is appended to the upper-cased service name to form
	// the override variable, e.g. OPENAI_API_KEY.
	EnvOverrideSuffix = "_API_KEY"

	// DefaultService is the service used by the key-management routes when
	// the caller names none.
	DefaultService = "openai"
)

// EnvVarName returns the environment override variable for service.
func EnvVarName(service string) string {
	return strings.ToUpper(service) + EnvOverrideSuffix
}

// ValidateServiceName rejects empty or blank names. Names are otherwise
// opaque and case-sensitive.
func ValidateServiceName(service string) error {
	if strings.TrimSpace(service) == "" {
		return ErrInvalidServiceName
	}
	return nil
}

// Credentials is the decrypted content of the vault record: service name to
// secret value.
type Credentials map[string]string

// Services returns the service names in ascending order.
func (c Credentials) Services() []string {
	services := make([]string, 0, len(c))
	for service := range c {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}

// Encode serializes the credential set as a JSON object.
func (c Credentials) Encode() ([]byte, error) {
	if c == nil {
		c = Credentials{}
	}
	data, err := json.Marshal(map[string]string(c))
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	return data, nil
}

// DecodeCredentials parses a JSON object of strings. Anything else means the
// record authenticated but its content is unusable, which is reported as a
// decryption failure.
func DecodeCredentials(data []byte) (Credentials, error) {
	var creds map[string]string
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: malformed credential set", cryptoDomain.ErrDecryptionFailed)
	}
	if creds == nil {
		creds = map[string]string{}
	}
	return Credentials(creds), nil
}

// Status summarizes where a service's credential would come from.
type Status struct {
	Service string `json:"service"`
	// EnvOverride is true when EnvVarName(Service) is set and non-empty.
	EnvOverride bool `json:"env_override"`
	// RecordStored is true when the vault record exists. It says nothing about
	// whether Service is inside it, which needs the password.
	RecordStored bool `json:"record_stored"`
}
