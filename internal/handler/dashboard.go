package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/chatmesh/chatd/internal/chat"
	"github.com/chatmesh/chatd/internal/message"
	"github.com/chatmesh/chatd/internal/project"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardHandler serves the read-only admin pages. The pages render
// stored data directly and perform no writes; like the project CRUD
// endpoints they sit outside tenant auth.
type DashboardHandler struct {
	projects  *project.Registry
	directory *chat.Directory
	log       *message.Log
	tmpl      *template.Template
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(projects *project.Registry, directory *chat.Directory, log *message.Log) *DashboardHandler {
	return &DashboardHandler{
		projects:  projects,
		directory: directory,
		log:       log,
		tmpl:      template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Projects renders the project list.
func (h *DashboardHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load projects", http.StatusInternalServerError)
		return
	}

	h.render(w, "projects.html", map[string]any{
		"Projects": projects,
	})
}

// Chats renders the chats of the project selected via ?project_id=.
func (h *DashboardHandler) Chats(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id query parameter is required", http.StatusBadRequest)
		return
	}

	chats, err := h.directory.List(r.Context(), projectID)
	if err != nil {
		http.Error(w, "failed to load chats", http.StatusInternalServerError)
		return
	}

	h.render(w, "chats.html", map[string]any{
		"ProjectID": projectID,
		"Chats":     chats,
	})
}

// Messages renders the message log of the chat selected via ?chat_id=.
func (h *DashboardHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		http.Error(w, "chat_id query parameter is required", http.StatusBadRequest)
		return
	}

	c, err := h.directory.Get(r.Context(), chatID)
	if err != nil {
		http.Error(w, "chat not found", http.StatusNotFound)
		return
	}

	msgs, err := h.log.List(r.Context(), chatID)
	if err != nil {
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}

	h.render(w, "messages.html", map[string]any{
		"Chat":     c,
		"Messages": msgs,
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("dashboard template render failed", "template", name, "error", err)
	}
}
