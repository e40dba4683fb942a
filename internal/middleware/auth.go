package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chatmesh/chatd/internal/project"
)

type contextKey string

const projectContextKey contextKey = "projectID"

// Auth is the tenant authentication middleware. Requests carry the
// project id and its API key in headers; both must match a stored
// project or the request is rejected.
type Auth struct {
	projects *project.Registry
}

// NewAuth creates a new Auth middleware.
func NewAuth(projects *project.Registry) *Auth {
	return &Auth{projects: projects}
}

// Handler returns the middleware handler.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.Header.Get("X-Project-Id")
		apiKey := r.Header.Get("X-Api-Key")
		if projectID == "" || apiKey == "" {
			writeError(w, http.StatusUnauthorized, "missing project credentials")
			return
		}

		ok, err := a.projects.ValidateAuth(r.Context(), projectID, apiKey)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "auth check failed")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid project credentials")
			return
		}

		ctx := context.WithValue(r.Context(), projectContextKey, projectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetProjectID retrieves the authenticated project id from the request
// context. Empty when the request did not pass through Auth.
func GetProjectID(ctx context.Context) string {
	id, _ := ctx.Value(projectContextKey).(string)
	return id
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
