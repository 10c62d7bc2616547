package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	"github.com/ugcforge/credvault/internal/httputil"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	"github.com/ugcforge/credvault/internal/vault/http/dto"
	"github.com/ugcforge/credvault/internal/vault/usecase/mocks"
	"github.com/ugcforge/credvault/internal/vision"
)

type fakeTester struct {
	reply string
	err   error
}

func (f fakeTester) TestConnection(ctx context.Context) (string, error) {
	return f.reply, f.err
}

type fakeState vision.State

func (f fakeState) State() vision.State {
	return vision.State(f)
}

type handlerFixture struct {
	handler   *VaultHandler
	useCase   *mocks.MockVaultUseCase
	testerKey string
	tester    fakeTester
}

func setupTestHandler(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{useCase: mocks.NewMockVaultUseCase(t)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.handler = NewVaultHandler(
		f.useCase,
		fakeState(vision.StateReady),
		func(apiKey string) (ConnectionTester, error) {
			f.testerKey = apiKey
			return f.tester, nil
		},
		logger,
	)
	return f
}

func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestVaultHandler_StatusHandler(t *testing.T) {
	f := setupTestHandler(t)
	f.useCase.EXPECT().
		Status(mock.Anything, "openai").
		Return(vaultDomain.Status{Service: "openai", RecordStored: true}, nil).
		Once()

	c, w := createTestContext(http.MethodGet, "/api/status", nil)
	f.handler.StatusHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusResponse{
		Service:      "openai",
		RecordStored: true,
		VisionState:  "ready",
	}, decode[dto.StatusResponse](t, w))
}

func TestVaultHandler_SaveKeyHandler(t *testing.T) {
	t.Run("Success_StoresKey", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().Store(mock.Anything, "openai", "sk-abc", "master").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key",
			dto.SaveKeyRequest{MasterPassword: "master", APIKey: " sk-abc "})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.MessageResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "API key saved securely", resp.Message)
	})

	t.Run("Success_OtherService", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().Store(mock.Anything, "anthropic", "ant-1", "master").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key",
			dto.SaveKeyRequest{MasterPassword: "master", APIKey: "ant-1", ServiceName: "anthropic"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_VerifyPasswordOnly", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().Retrieve(mock.Anything, "openai", "master").Return("sk-abc", nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key", dto.SaveKeyRequest{MasterPassword: "master"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Master password verified", decode[dto.MessageResponse](t, w).Message)
		assert.NotContains(t, w.Body.String(), "sk-abc")
	})

	t.Run("Error_VerifyWithWrongPasswordIsUnauthorized", func(t *testing.T) {
		f := setupTestHandler(t)
		conflated := fmt.Errorf("%w: %w", vaultDomain.ErrCredentialNotFound, cryptoDomain.ErrDecryptionFailed)
		f.useCase.EXPECT().Retrieve(mock.Anything, "openai", "wrong").Return("", conflated).Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key", dto.SaveKeyRequest{MasterPassword: "wrong"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_VerifyWithNothingStored", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().
			Retrieve(mock.Anything, "openai", "master").
			Return("", vaultDomain.ErrCredentialNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key", dto.SaveKeyRequest{MasterPassword: "master"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_KeyWithoutPrefix", func(t *testing.T) {
		f := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/save-key",
			dto.SaveKeyRequest{MasterPassword: "master", APIKey: "not-a-key"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decode[httputil.ErrorResponse](t, w).Message, "apiKey")
	})

	t.Run("Error_MissingPassword", func(t *testing.T) {
		f := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/save-key", dto.SaveKeyRequest{APIKey: "sk-abc"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		f := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/save-key", "{not json")
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_StrictModeRefusesOverwrite", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().
			Store(mock.Anything, "openai", "sk-abc", "wrong").
			Return(cryptoDomain.ErrDecryptionFailed).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/save-key",
			dto.SaveKeyRequest{MasterPassword: "wrong", APIKey: "sk-abc"})
		f.handler.SaveKeyHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestVaultHandler_ListServicesHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().List(mock.Anything, "master").Return([]string{"anthropic", "openai"}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/list-services", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.ListServicesHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"services":["anthropic","openai"]}`, w.Body.String())
	})

	t.Run("Success_EmptyIsArray", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().List(mock.Anything, "master").Return([]string{}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/list-services", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.ListServicesHandler(c)

		assert.JSONEq(t, `{"success":true,"services":[]}`, w.Body.String())
	})

	t.Run("Error_MissingPassword", func(t *testing.T) {
		f := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/list-services", dto.MasterPasswordRequest{})
		f.handler.ListServicesHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestVaultHandler_DeleteKeyHandler(t *testing.T) {
	t.Run("Success_DefaultService", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().Delete(mock.Anything, "openai", "master").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/delete-key", dto.DeleteKeyRequest{MasterPassword: "master"})
		f.handler.DeleteKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "openai API key deleted", decode[dto.MessageResponse](t, w).Message)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().
			Delete(mock.Anything, "anthropic", "master").
			Return(vaultDomain.ErrCredentialNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/delete-key",
			dto.DeleteKeyRequest{MasterPassword: "master", ServiceName: "anthropic"})
		f.handler.DeleteKeyHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode[httputil.ErrorResponse](t, w).Error)
	})
}

func TestVaultHandler_TestConnectionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := setupTestHandler(t)
		f.tester = fakeTester{reply: "Connection successful!"}
		f.useCase.EXPECT().Retrieve(mock.Anything, "openai", "master").Return("sk-abc", nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/test-connection", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.TestConnectionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sk-abc", f.testerKey)
		assert.Equal(t, "Connection successful! Response: Connection successful!", decode[dto.MessageResponse](t, w).Message)
	})

	t.Run("Error_NoKey", func(t *testing.T) {
		f := setupTestHandler(t)
		f.useCase.EXPECT().
			Retrieve(mock.Anything, "openai", "master").
			Return("", vaultDomain.ErrCredentialNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/api/test-connection", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.TestConnectionHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, f.testerKey)
	})

	t.Run("Error_KeyRejected", func(t *testing.T) {
		f := setupTestHandler(t)
		f.tester = fakeTester{err: vision.ErrInvalidAPIKey}
		f.useCase.EXPECT().Retrieve(mock.Anything, "openai", "master").Return("sk-bad", nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/test-connection", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.TestConnectionHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_Upstream", func(t *testing.T) {
		f := setupTestHandler(t)
		f.tester = fakeTester{err: vision.ErrUpstream}
		f.useCase.EXPECT().Retrieve(mock.Anything, "openai", "master").Return("sk-abc", nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/test-connection", dto.MasterPasswordRequest{MasterPassword: "master"})
		f.handler.TestConnectionHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
