package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chatmesh/chatd/internal/chat"
	"github.com/chatmesh/chatd/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// ChatHandler handles chat directory operations for the authenticated
// project.
type ChatHandler struct {
	directory *chat.Directory
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(directory *chat.Directory) *ChatHandler {
	return &ChatHandler{directory: directory}
}

// CreateDirectChatRequest is the request body for creating a direct chat.
type CreateDirectChatRequest struct {
	UserA string `json:"user_a"`
	UserB string `json:"user_b"`
}

// CreateGroupChatRequest is the request body for creating a group chat.
type CreateGroupChatRequest struct {
	Users []string `json:"users"`
	Title string   `json:"title,omitempty"`
}

// CreateDirect returns the direct chat for the pair, creating it if
// absent. 200 with existed=true when the pair already has a chat, 201
// on a fresh create.
func (h *ChatHandler) CreateDirect(w http.ResponseWriter, r *http.Request) {
	var req CreateDirectChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	c, existed, err := h.directory.CreateDirect(r.Context(), projectID, req.UserA, req.UserB)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"chat":    c,
		"existed": existed,
	})
}

// CreateGroup creates a group chat.
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	c, err := h.directory.CreateGroup(r.Context(), projectID, req.Users, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// List lists the authenticated project's chats.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID := middleware.GetProjectID(r.Context())
	chats, err := h.directory.List(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chats": chats,
		"count": len(chats),
	})
}

// Get retrieves one of the project's chats by id. A chat owned by
// another project is an authorization failure.
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat id is required"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	c, err := h.directory.Authorize(r.Context(), projectID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}
