package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ============================================================================
// Server - transport layer
// ============================================================================
//
// Accepts one long-lived websocket per remote client, wires it into the hub
// (which pushes the current state on registration), and feeds inbound frames
// to the controller. Registration of one client never blocks on another's
// I/O: each connection gets its own pumps and the hub's send queues are
// non-blocking.
// ============================================================================

type Server struct {
	logger *slog.Logger

	hub *Hub
	ctl *Controller

	httpServer *http.Server
}

func NewServer(port int, hub *Hub, ctl *Controller, logger *slog.Logger) *Server {
	s := &Server{
		logger: logger,
		hub:    hub,
		ctl:    ctl,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

var upgrader = websocket.Upgrader{
	// The daemon serves a trusted local network; the protocol carries no
	// credentials (see non-goals), so origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and registers the client. The hub pushes
// the initial state snapshot as part of registration.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)

	// Register first so broadcasts (and the initial snapshot) can reach it.
	s.hub.register <- client

	// Do not tie the pumps to the HTTP request context (r.Context()).
	// net/http cancels the request context when the handler returns, which
	// would prematurely stop the pumps and cause abnormal closures (1006).
	// Connection lifetime is managed by the hub and by read/write errors.
	go client.writePump(context.Background())
	go client.readPump(context.Background(), s.ctl.Handle)
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
