package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

const deviceCollection = "devices"

// Devices is the device-token registry consumed by the delivery worker.
type Devices struct {
	store store.Store
}

// NewDevices creates a Devices registry.
func NewDevices(s store.Store) *Devices {
	return &Devices{store: s}
}

// Register stores a push token for a user within a project.
func (d *Devices) Register(ctx context.Context, projectID, userID, token, platform string) (*domain.Device, error) {
	if userID == "" || token == "" {
		return nil, fmt.Errorf("user_id and token are required: %w", domain.ErrInvalidArgument)
	}

	dev := domain.Device{
		ProjectID: projectID,
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		CreatedAt: time.Now().UTC(),
	}
	fields, err := store.Encode(dev)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")

	id, err := d.store.Add(ctx, deviceCollection, fields)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return nil, fmt.Errorf("register device: %w", domain.ErrStoreUnavailable)
		}
		return nil, fmt.Errorf("register device: %w", err)
	}
	dev.ID = id
	return &dev, nil
}

// ListForUser returns the devices registered for a user within a project.
func (d *Devices) ListForUser(ctx context.Context, projectID, userID string) ([]domain.Device, error) {
	docs, err := d.store.Query(ctx, deviceCollection, store.Query{
		Filters: []store.Filter{
			{Field: "project_id", Value: projectID},
			{Field: "user_id", Value: userID},
		},
	})
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return nil, fmt.Errorf("list devices: %w", domain.ErrStoreUnavailable)
		}
		return nil, fmt.Errorf("list devices: %w", err)
	}

	out := make([]domain.Device, 0, len(docs))
	for _, doc := range docs {
		var dev domain.Device
		if err := store.Decode(doc.Fields, &dev); err != nil {
			return nil, err
		}
		dev.ID = doc.ID
		out = append(out, dev)
	}
	return out, nil
}
