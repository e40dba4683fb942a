package client

import (
	"context"
	"net/http"
	"time"
)

// Project represents a tenant project. APIKey is only returned by the
// admin endpoints.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectList is the response from listing projects.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Count    int       `json:"count"`
}

// CreateProject creates a project and returns it including its API key.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var p Project
	err := c.do(ctx, http.MethodPost, "/projects", map[string]string{"name": name}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects lists all projects.
func (c *Client) ListProjects(ctx context.Context) (*ProjectList, error) {
	var list ProjectList
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProject retrieves a project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject renames a project.
func (c *Client) UpdateProject(ctx context.Context, id, name string) (*Project, error) {
	var p Project
	err := c.do(ctx, http.MethodPut, "/projects/"+id, map[string]string{"name": name}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}
