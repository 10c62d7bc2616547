// Package dto provides the request and response bodies of the key-management API.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	customValidation "github.com/ugcforge/credvault/internal/validation"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// SaveKeyRequest stores a key, or only verifies the master password when
// APIKey is empty.
type SaveKeyRequest struct {
	MasterPassword string `json:"masterPassword"`
	APIKey         string `json:"apiKey"`
	ServiceName    string `json:"serviceName"`
}

// Normalize trims the key and applies the default service.
func (r *SaveKeyRequest) Normalize() {
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.ServiceName = defaultService(r.ServiceName)
}

// Validate checks the request. Keys for the openai service must look like
// OpenAI keys.
func (r *SaveKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MasterPassword, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ServiceName, validation.Required, customValidation.ServiceName),
		validation.Field(&r.APIKey,
			customValidation.NoWhitespace,
			validation.When(r.ServiceName == vaultDomain.DefaultService, customValidation.OpenAIKeyFormat),
		),
	)
}

// VerifyOnly reports whether the request only checks the password.
func (r *SaveKeyRequest) VerifyOnly() bool {
	return r.APIKey == ""
}

// MasterPasswordRequest is the body of routes that only need the password.
type MasterPasswordRequest struct {
	MasterPassword string `json:"masterPassword"`
}

// Validate checks the request.
func (r *MasterPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MasterPassword, validation.Required, customValidation.NotBlank),
	)
}

// DeleteKeyRequest deletes one service's key.
type DeleteKeyRequest struct {
	MasterPassword string `json:"masterPassword"`
	ServiceName    string `json:"serviceName"`
}

// Normalize applies the default service.
func (r *DeleteKeyRequest) Normalize() {
	r.ServiceName = defaultService(r.ServiceName)
}

// Validate checks the request.
func (r *DeleteKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MasterPassword, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ServiceName, validation.Required, customValidation.ServiceName),
	)
}

func defaultService(service string) string {
	service = strings.TrimSpace(service)
	if service == "" {
		return vaultDomain.DefaultService
	}
	return service
}
