// Package http provides the key-management HTTP handlers. Every route that
// touches the vault takes the master password in the JSON body.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"
	"github.com/ugcforge/credvault/internal/httputil"
	customValidation "github.com/ugcforge/credvault/internal/validation"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	"github.com/ugcforge/credvault/internal/vault/http/dto"
	vaultUsecase "github.com/ugcforge/credvault/internal/vault/usecase"
	"github.com/ugcforge/credvault/internal/vision"
)

// ConnectionTester probes the vision API with a given key.
type ConnectionTester interface {
	TestConnection(ctx context.Context) (string, error)
}

// ConnectionTesterFactory builds a transient tester for apiKey.
type ConnectionTesterFactory func(apiKey string) (ConnectionTester, error)

// VisionStateReporter exposes the startup vision client state.
type VisionStateReporter interface {
	State() vision.State
}

// VaultHandler serves the key-management routes.
type VaultHandler struct {
	useCase     vaultUsecase.VaultUseCase
	visionState VisionStateReporter
	newTester   ConnectionTesterFactory
	logger      *slog.Logger
}

// NewVaultHandler creates a handler.
func NewVaultHandler(
	useCase vaultUsecase.VaultUseCase,
	visionState VisionStateReporter,
	newTester ConnectionTesterFactory,
	logger *slog.Logger,
) *VaultHandler {
	return &VaultHandler{
		useCase:     useCase,
		visionState: visionState,
		newTester:   newTester,
		logger:      logger,
	}
}

// StatusHandler reports key sources for the default service.
// GET /api/status - 200 OK.
func (h *VaultHandler) StatusHandler(c *gin.Context) {
	status, err := h.useCase.Status(c.Request.Context(), vaultDomain.DefaultService)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	state := vision.StateUnconfigured
	if h.visionState != nil {
		state = h.visionState.State()
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(status, state.String()))
}

// SaveKeyHandler stores a key, or verifies the master password when no key is given.
// POST /api/save-key - 200 OK.
func (h *VaultHandler) SaveKeyHandler(c *gin.Context) {
	var req dto.SaveKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()

	if req.VerifyOnly() {
		if _, err := h.useCase.Retrieve(ctx, req.ServiceName, req.MasterPassword); err != nil {
			httputil.HandleErrorGin(c, surfaceAuthFailure(err), h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.NewMessageResponse("Master password verified"))
		return
	}

	if err := h.useCase.Store(ctx, req.ServiceName, req.APIKey, req.MasterPassword); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("API key saved securely"))
}

// ListServicesHandler lists the stored service names.
// POST /api/list-services - 200 OK.
func (h *VaultHandler) ListServicesHandler(c *gin.Context) {
	var req dto.MasterPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	services, err := h.useCase.List(c.Request.Context(), req.MasterPassword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewListServicesResponse(services))
}

// DeleteKeyHandler removes one service's key.
// POST /api/delete-key - 200 OK, 404 when the service is not stored.
func (h *VaultHandler) DeleteKeyHandler(c *gin.Context) {
	var req dto.DeleteKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), req.ServiceName, req.MasterPassword); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(req.ServiceName+" API key deleted"))
}

// TestConnectionHandler resolves the OpenAI key and sends a probe completion.
// POST /api/test-connection - 200 OK.
func (h *VaultHandler) TestConnectionHandler(c *gin.Context) {
	var req dto.MasterPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()

	apiKey, err := h.useCase.Retrieve(ctx, vision.Service, req.MasterPassword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	tester, err := h.newTester(apiKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	reply, err := tester.TestConnection(ctx)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Connection successful! Response: "+reply))
}

// surfaceAuthFailure turns a not-found that hides an authentication failure
// back into the authentication failure. Password verification needs the
// distinction even when the vault conflates the two.
func surfaceAuthFailure(err error) error {
	if errors.Is(err, cryptoDomain.ErrDecryptionFailed) {
		return cryptoDomain.ErrDecryptionFailed
	}
	return err
}
