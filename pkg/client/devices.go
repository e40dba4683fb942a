package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Device represents a registered push device.
type Device struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeviceList is the response from listing devices.
type DeviceList struct {
	Devices []Device `json:"devices"`
	Count   int      `json:"count"`
}

// RegisterDevice stores a push token for a user.
func (c *Client) RegisterDevice(ctx context.Context, userID, token, platform string) (*Device, error) {
	var d Device
	err := c.do(ctx, http.MethodPost, "/devices", map[string]string{
		"user_id":  userID,
		"token":    token,
		"platform": platform,
	}, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDevices returns the devices registered for a user.
func (c *Client) ListDevices(ctx context.Context, userID string) (*DeviceList, error) {
	var list DeviceList
	path := "/devices?user_id=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
