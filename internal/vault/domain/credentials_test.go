package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	"github.com/ugcforge/credvault/internal/errors"
)

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", EnvVarName("openai"))
	assert.Equal(t, "ANTHROPIC_API_KEY", EnvVarName("Anthropic"))
	assert.Equal(t, "MY-SVC_API_KEY", EnvVarName("my-svc"))
}

func TestValidateServiceName(t *testing.T) {
	assert.NoError(t, ValidateServiceName("openai"))
	assert.NoError(t, ValidateServiceName("OpenAI"))

	for _, name := range []string{"", " ", "\t\n"} {
		err := ValidateServiceName(name)
		assert.ErrorIs(t, err, ErrInvalidServiceName)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	}
}

func TestCredentials_Services(t *testing.T) {
	creds := Credentials{"openai": "a", "anthropic": "b", "Zeta": "c"}
	assert.Equal(t, []string{"Zeta", "anthropic", "openai"}, creds.Services())

	assert.Empty(t, Credentials{}.Services())
	assert.NotNil(t, Credentials(nil).Services())
}

func TestCredentials_EncodeDecode(t *testing.T) {
	creds := Credentials{"openai": "sk-ключ-🔑", "empty": ""}

	data, err := creds.Encode()
	require.NoError(t, err)

	decoded, err := DecodeCredentials(data)
	require.NoError(t, err)
	assert.Equal(t, creds, decoded)

	data, err = Credentials(nil).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestDecodeCredentials_Invalid(t *testing.T) {
	for _, input := range []string{"", "[]", `{"a":1}`, "not json"} {
		_, err := DecodeCredentials([]byte(input))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "input %q", input)
	}

	creds, err := DecodeCredentials([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, creds)
	assert.Empty(t, creds)
}

func TestBackup_Validate(t *testing.T) {
	valid := &Backup{ID: uuid.New(), Ciphertext: []byte{1}}
	assert.NoError(t, valid.Validate())

	var nilBackup *Backup
	assert.ErrorIs(t, nilBackup.Validate(), ErrInvalidBackup)
	assert.ErrorIs(t, (&Backup{Ciphertext: []byte{1}}).Validate(), ErrInvalidBackup)
	assert.ErrorIs(t, (&Backup{ID: uuid.New()}).Validate(), ErrInvalidBackup)
}
