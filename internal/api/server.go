package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carnorm/internal/export"
	"carnorm/internal/logging"
)

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// MaxBodyBytes caps both the raw and the decompressed request body.
	MaxBodyBytes int64
	// AssetsDir, when set, is served at / (the browser front-end).
	AssetsDir string
	// Output is used when a request does not choose a format.
	Output export.Options
}

// DefaultServerConfig returns default server settings
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		MaxBodyBytes: 32 << 20,
		Output:       export.Options{Format: export.FormatJSON},
	}
}

// Server represents the HTTP API server
type Server struct {
	router  *http.ServeMux
	server  *http.Server
	addr    string
	logger  *logging.Logger
	config  ServerConfig
	metrics *MetricsCollector
}

// NewServer creates a new HTTP server instance
func NewServer(addr string, logger *logging.Logger, config ServerConfig) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultServerConfig().MaxBodyBytes
	}

	s := &Server{
		addr:    addr,
		logger:  logger,
		config:  config,
		router:  http.NewServeMux(),
		metrics: NewMetricsCollector(),
	}

	s.registerRoutes()

	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr":   s.addr,
		"assets": s.config.AssetsDir,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully", nil)
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler; the last one applied runs first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger, s.metrics)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}
