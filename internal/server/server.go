// Package server exposes the generation pipeline over HTTP to the admin
// upload surface. Two operations plus health checks; the consumer apps read
// finished stories from the data store directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/taleify/taleify/internal/pipeline"
	"github.com/taleify/taleify/internal/providers"
)

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// RequestTimeout caps one generation request end to end (default: 300s).
	RequestTimeout time.Duration
	// Generator runs manuscript generation.
	Generator *pipeline.Generator
	// TTS is used for voice pre-checks and readiness.
	TTS providers.TTSClient
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// Server is the Taleify HTTP server.
type Server struct {
	httpServer     *http.Server
	generator      *pipeline.Generator
	tts            providers.TTSClient
	requestTimeout time.Duration
	logger         *slog.Logger

	mu      sync.RWMutex
	running bool
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 300 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.TTS == nil {
		return nil, fmt.Errorf("tts client is required")
	}

	s := &Server{
		generator:      cfg.Generator,
		tts:            cfg.TTS,
		requestTimeout: cfg.RequestTimeout,
		logger:         cfg.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: mux,
		// Generation runs for minutes; the write timeout must cover the
		// whole request budget.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
