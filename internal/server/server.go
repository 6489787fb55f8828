// Package server manages the HTTP server lifecycle for the vantage dev
// server: route registration (application, static files, live reload
// endpoint), middleware application, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/vantage-web/vantage/internal/config"
	"github.com/vantage-web/vantage/internal/livereload"
)

// shutdownTimeout bounds connection draining during graceful shutdown.
const shutdownTimeout = 30 * time.Second

// ReloadPath is where the live reload WebSocket endpoint is mounted.
const ReloadPath = "/_vantage/reload"

// MiddlewareProvider applies a middleware stack to a handler.
type MiddlewareProvider interface {
	Apply(http.Handler) http.Handler
}

// Server wraps an http.Server serving a vantage application.
//
// Invariants:
//   - cfg and mux are non-nil after construction
//   - httpServer is non-nil after construction, nil is never exposed
//   - isShutdown is write-protected by mu
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	mu         sync.RWMutex
	httpServer *http.Server
	isShutdown bool
}

// Options carries the pieces the dev server mounts besides the application
// itself. Hub and StaticDir are optional.
type Options struct {
	App       http.Handler
	Hub       *livereload.Hub
	StaticDir string
}

// New creates a server with all routes registered and middleware applied.
func New(cfg *config.Config, opts Options, mw MiddlewareProvider) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server: config cannot be nil")
	}
	if opts.App == nil {
		return nil, fmt.Errorf("server: application handler cannot be nil")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server: invalid port %d", cfg.Server.Port)
	}

	mux := http.NewServeMux()
	wrap := func(h http.Handler) http.Handler {
		if mw == nil {
			return h
		}
		return mw.Apply(h)
	}

	// The reload endpoint stays outside the middleware chain: the chain's
	// buffering and status-recording writers cannot hand the connection
	// over to the WebSocket upgrade.
	if opts.Hub != nil {
		mux.HandleFunc(ReloadPath, opts.Hub.HandleWebSocket)
	}
	if opts.StaticDir != "" {
		prefix := cfg.Templates.Static
		mux.Handle(prefix, wrap(http.StripPrefix(prefix, http.FileServer(http.Dir(opts.StaticDir)))))
	}
	mux.Handle("/", wrap(opts.App))

	s := &Server{cfg: cfg, mux: mux}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: mux,
	}
	return s, nil
}

// Start runs the server until it fails or ctx is cancelled, in which case
// it shuts down gracefully and returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	isShutdown := s.isShutdown
	s.mu.RUnlock()

	if isShutdown {
		return fmt.Errorf("server: already shut down")
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server. It is idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isShutdown {
		return nil
	}
	s.isShutdown = true

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the server's bind address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpServer.Addr
}

// IsShutdown reports whether Shutdown has completed.
func (s *Server) IsShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isShutdown
}
