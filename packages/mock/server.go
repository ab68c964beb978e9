// Package mock provides a stub JSON API server for exercising REST
// clients in tests and local development. Routes are declared in code
// with {param} path patterns and canned responses.
package mock

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Server wraps a Router in an http.Server with optional artificial
// latency and request logging.
type Server struct {
	router  *Router
	port    int
	delay   time.Duration
	verbose bool

	srv *http.Server
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables request logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// NewServer creates a new stub server serving the given router.
func NewServer(router *Router, opts ...Option) *Server {
	s := &Server{
		router: router,
		port:   3000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP applies the configured delay and logging, then routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.verbose {
		log.Printf("mock: %s %s", r.Method, r.URL.Path)
	}
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and blocks until it is shut down.
func (s *Server) ListenAndServe() error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
