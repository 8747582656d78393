// Package api provides HTTP handlers and the main API server logic for
// SteadyPath.
//
// It exposes RESTful endpoints for the conversational flow engine: free-form
// chat, explicit session start/continue/end, status queries, and flow
// discovery. Every inbound message passes the crisis screen inside the
// session registry before any flow logic runs.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/StillwaterLabs/SteadyPath/internal/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds API server configuration.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the session registry into HTTP handlers.
type Server struct {
	sessions *session.Registry
	addr     string
}

// NewServer creates an API server over the given session registry.
func NewServer(sessions *session.Registry, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{sessions: sessions, addr: cfg.Addr}
}

// Handler returns the route table as an http.Handler, used by Run and by
// handler tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/sessions/start", s.startSessionHandler)
	mux.HandleFunc("/sessions/continue", s.continueSessionHandler)
	mux.HandleFunc("/sessions/status", s.sessionStatusHandler)
	mux.HandleFunc("/sessions/end", s.endSessionHandler)
	mux.HandleFunc("/sessions/history", s.sessionHistoryHandler)
	mux.HandleFunc("/flows", s.listFlowsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run starts the HTTP server and blocks until the context is canceled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("SteadyPath API listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
