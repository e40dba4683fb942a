// Package project implements the tenant registry: project lifecycle and
// API-key authentication.
package project

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

const collection = "projects"

// Registry manages projects on top of the document store.
type Registry struct {
	store store.Store
}

// NewRegistry creates a Registry.
func NewRegistry(s store.Store) *Registry {
	return &Registry{store: s}
}

// Create registers a new project with a generated id and API key.
func (r *Registry) Create(ctx context.Context, name string) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", domain.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ID:        domain.GenerateProjectID(),
		Name:      name,
		APIKey:    domain.GenerateAPIKey(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	fields, err := store.Encode(p)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, collection, p.ID, fields); err != nil {
		return nil, wrapStoreErr("create project", err)
	}

	slog.Info("project created", "project_id", p.ID, "name", p.Name)
	return p, nil
}

// List returns an unordered snapshot of all projects.
func (r *Registry) List(ctx context.Context) ([]domain.Project, error) {
	docs, err := r.store.Query(ctx, collection, store.Query{})
	if err != nil {
		return nil, wrapStoreErr("list projects", err)
	}

	out := make([]domain.Project, 0, len(docs))
	for _, d := range docs {
		var p domain.Project
		if err := store.Decode(d.Fields, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns a project by id.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Project, error) {
	fields, err := r.store.Get(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, wrapStoreErr("get project", err)
	}

	var p domain.Project
	if err := store.Decode(fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update merges the provided fields into the project. A nil name is a
// no-op: the stored record is returned unchanged and updated_at is not
// advanced. The authoritative post-update state is re-read and returned.
func (r *Registry) Update(ctx context.Context, id string, name *string) (*domain.Project, error) {
	if name == nil {
		return r.Get(ctx, id)
	}
	if *name == "" {
		return nil, fmt.Errorf("project name must not be empty: %w", domain.ErrInvalidArgument)
	}

	updates := map[string]any{
		"name":       *name,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	err := r.store.Update(ctx, collection, id, updates)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, wrapStoreErr("update project", err)
	}

	return r.Get(ctx, id)
}

// Delete removes a project by id. Deleting a nonexistent id is not an
// error. Chats are deliberately not cascaded: orphaned chats stay
// reachable by direct id lookup only.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, collection, id); err != nil {
		return wrapStoreErr("delete project", err)
	}
	slog.Info("project deleted", "project_id", id)
	return nil
}

// ValidateAuth reports whether the project exists and the supplied API key
// matches its stored key. The comparison is constant time.
func (r *Registry) ValidateAuth(ctx context.Context, id, apiKey string) (bool, error) {
	p, err := r.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(p.APIKey), []byte(apiKey)) == 1, nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
