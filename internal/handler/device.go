package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chatmesh/chatd/internal/middleware"
	"github.com/chatmesh/chatd/internal/notify"
)

// DeviceHandler handles push-token registration for the authenticated
// project.
type DeviceHandler struct {
	devices *notify.Devices
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(devices *notify.Devices) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// RegisterDeviceRequest is the request body for registering a device.
type RegisterDeviceRequest struct {
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// Register stores a push token for a user.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	d, err := h.devices.Register(r.Context(), projectID, req.UserID, req.Token, req.Platform)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// List returns the devices registered for a user.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	devices, err := h.devices.ListForUser(r.Context(), projectID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}
