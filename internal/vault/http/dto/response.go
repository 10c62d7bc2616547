package dto

import (
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// MessageResponse acknowledges a successful operation.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewMessageResponse creates a successful MessageResponse.
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// ListServicesResponse lists stored service names.
type ListServicesResponse struct {
	Success  bool     `json:"success"`
	Services []string `json:"services"`
}

// NewListServicesResponse never renders services as null.
func NewListServicesResponse(services []string) ListServicesResponse {
	if services == nil {
		services = []string{}
	}
	return ListServicesResponse{Success: true, Services: services}
}

// StatusResponse describes where the vision key comes from and whether the
// vision client is usable.
type StatusResponse struct {
	Service      string `json:"service"`
	EnvOverride  bool   `json:"env_override"`
	RecordStored bool   `json:"record_stored"`
	VisionState  string `json:"vision_state"`
}

// MapStatusToResponse converts a vault status and the vision client state.
func MapStatusToResponse(status vaultDomain.Status, visionState string) StatusResponse {
	return StatusResponse{
		Service:      status.Service,
		EnvOverride:  status.EnvOverride,
		RecordStored: status.RecordStored,
		VisionState:  visionState,
	}
}
