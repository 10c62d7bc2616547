// Package validation provides the custom jellydator/validation rules used by
// request DTOs and the interactive CLI prompts.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/ugcforge/credvault/internal/errors"
)

// OpenAIKeyPrefix is the prefix every OpenAI secret key carries.
const OpenAIKeyPrefix = "sk-"

var serviceNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]{0,63}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength requires a minimum number of characters (runes, not bytes).
type PasswordStrength struct {
	MinLength int
}

// Validate checks value against the configured minimum.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}
	return nil
}

// MasterPassword is the rule the setup flow applies to new vault passwords.
var MasterPassword = PasswordStrength{MinLength: 8}

// NoWhitespace rejects leading or trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank rejects strings made only of whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OpenAIKeyFormat requires the "sk-" prefix.
var OpenAIKeyFormat = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.HasPrefix(s, OpenAIKeyPrefix) && len(s) > len(OpenAIKeyPrefix)
	},
	validation.NewError("validation_openai_key_format", "must be an OpenAI key starting with \"sk-\""),
)

// ServiceName limits names accepted over HTTP and the CLI to a form that maps
// cleanly onto an environment variable override.
var ServiceName = validation.NewStringRuleWithError(
	func(s string) bool {
		return serviceNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_service_name",
		"must start with a letter or digit and contain only letters, digits, '.', '_' or '-' (max 64)",
	),
)
