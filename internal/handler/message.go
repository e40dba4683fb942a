package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chatmesh/chatd/internal/chat"
	"github.com/chatmesh/chatd/internal/message"
	"github.com/chatmesh/chatd/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// MessageHandler handles message append and listing. Every operation
// authorizes the chat against the authenticated project first.
type MessageHandler struct {
	directory *chat.Directory
	log       *message.Log
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(directory *chat.Directory, log *message.Log) *MessageHandler {
	return &MessageHandler{directory: directory, log: log}
}

// AddMessageRequest is the request body for appending a message.
type AddMessageRequest struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// Add appends a message to the chat.
func (h *MessageHandler) Add(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	if chatID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat id is required"})
		return
	}

	var req AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	if _, err := h.directory.Authorize(r.Context(), projectID, chatID); err != nil {
		writeDomainError(w, err)
		return
	}

	m, err := h.log.Add(r.Context(), projectID, chatID, req.SenderID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// List returns the chat's messages in append order.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	if chatID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat id is required"})
		return
	}

	projectID := middleware.GetProjectID(r.Context())
	if _, err := h.directory.Authorize(r.Context(), projectID, chatID); err != nil {
		writeDomainError(w, err)
		return
	}

	msgs, err := h.log.List(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": msgs,
		"count":    len(msgs),
	})
}
