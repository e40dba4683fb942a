// Package server wires the HTTP API together and owns the lifetime of
// the background delivery worker.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/chatmesh/chatd/internal/chat"
	"github.com/chatmesh/chatd/internal/config"
	"github.com/chatmesh/chatd/internal/message"
	"github.com/chatmesh/chatd/internal/nats"
	"github.com/chatmesh/chatd/internal/notify"
	"github.com/chatmesh/chatd/internal/project"
	"github.com/chatmesh/chatd/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Server is the HTTP server.
type Server struct {
	cfg          *config.Config
	db           *pgxpool.Pool
	nats         *nats.Client
	projects     *project.Registry
	directory    *chat.Directory
	messages     *message.Log
	devices      *notify.Devices
	server       *http.Server
	workerCancel context.CancelFunc
}

// New creates a new Server on top of the given document store. nc may
// be nil, in which case appends are not published and the push worker
// is not started. db is only used by the readiness probe and may be
// nil when the store is not Postgres-backed.
func New(cfg *config.Config, st store.Store, db *pgxpool.Pool, nc *nats.Client) *Server {
	var notifier message.Notifier
	if nc != nil {
		notifier = notify.NewPublisher(nc.JetStream())
	}

	s := &Server{
		cfg:       cfg,
		db:        db,
		nats:      nc,
		projects:  project.NewRegistry(st),
		directory: chat.NewDirectory(st),
		messages:  message.NewLog(st, notifier),
		devices:   notify.NewDevices(st),
	}

	s.server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.routes(),
	}

	return s
}

// StartPushWorker starts the push delivery worker consuming appended
// events from the notification stream. No-op when NATS is disabled.
func (s *Server) StartPushWorker(gateway *notify.GatewayConfig) {
	if s.nats == nil {
		return
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	s.workerCancel = cancel

	worker := notify.NewWorker(s.nats.Stream(), s.directory, s.devices, gateway)
	go func() {
		if err := worker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			slog.Error("push worker error", "error", err)
		}
	}()
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Serve starts the HTTP server on the given listener.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Shutdown gracefully shuts down the server and stops the push worker.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.workerCancel != nil {
		s.workerCancel()
	}
	return s.server.Shutdown(ctx)
}
