package client

import (
	"context"
	"net/http"
)

// HealthStatus is the response from the readiness probe.
type HealthStatus struct {
	Status   string `json:"status"`
	NATS     string `json:"nats"`
	Database string `json:"database"`
}

// Health checks liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Ready checks readiness including dependencies.
func (c *Client) Ready(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/ready", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
