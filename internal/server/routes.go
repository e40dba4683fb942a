package server

import (
	"net/http"

	"github.com/chatmesh/chatd/internal/handler"
	"github.com/chatmesh/chatd/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Project-Id", "X-Api-Key"},
		MaxAge:         300,
	}))

	// Health checks (no auth)
	healthHandler := handler.NewHealthHandler(s.db, s.nats)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Admin surface (no tenant auth): project CRUD issues the credentials
	// tenant auth checks, and the dashboard is read-only.
	projectHandler := handler.NewProjectHandler(s.projects)
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", projectHandler.Create)
		r.Get("/", projectHandler.List)
		r.Get("/{id}", projectHandler.Get)
		r.Put("/{id}", projectHandler.Update)
		r.Delete("/{id}", projectHandler.Delete)
	})

	dashboardHandler := handler.NewDashboardHandler(s.projects, s.directory, s.messages)
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/projects", dashboardHandler.Projects)
		r.Get("/chats", dashboardHandler.Chats)
		r.Get("/messages", dashboardHandler.Messages)
	})

	// Tenant surface: everything below requires X-Project-Id/X-Api-Key.
	auth := middleware.NewAuth(s.projects)
	chatHandler := handler.NewChatHandler(s.directory)
	messageHandler := handler.NewMessageHandler(s.directory, s.messages)
	deviceHandler := handler.NewDeviceHandler(s.devices)

	r.Group(func(r chi.Router) {
		r.Use(auth.Handler)

		r.Post("/chats/direct", chatHandler.CreateDirect)
		r.Post("/chats/group", chatHandler.CreateGroup)
		r.Get("/chats", chatHandler.List)
		r.Get("/chats/{id}", chatHandler.Get)

		r.Post("/chats/{id}/messages", messageHandler.Add)
		r.Get("/chats/{id}/messages", messageHandler.List)

		r.Post("/devices", deviceHandler.Register)
		r.Get("/devices", deviceHandler.List)
	})

	return r
}
