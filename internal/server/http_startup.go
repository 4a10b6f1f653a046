package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"resumelens/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const shutdownGracePeriod = 30 * time.Second

// Start wires up observability, routes and the key watcher, then serves
// until a shutdown signal arrives.
func (s *Server) Start() error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	httpServer := s.buildHTTPServer(om)

	if err := s.startKeyWatcher(om); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.serve(httpServer)
}

func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// buildHTTPServer assembles the mux and wraps it in the otel middleware.
func (s *Server) buildHTTPServer(om *observability.ObservabilityManager) *http.Server {
	mux := s.setupRoutes(om)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      om.HTTPMiddleware()(mux),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startKeyWatcher starts the API keys file watcher when a keys file is
// configured. Reloads rebuild the active key set without a restart.
func (s *Server) startKeyWatcher(om *observability.ObservabilityManager) error {
	if s.APIKeysFile == "" {
		return nil
	}

	watcher, err := NewKeyWatcher(s.APIKeysFile, time.Second, func() {
		s.reloadAPIKeys(om)
	}, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create API keys watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start API keys watcher: %w", err)
	}

	s.keyWatcher = watcher
	return nil
}

// reloadAPIKeys reloads the key set from disk and records the outcome.
func (s *Server) reloadAPIKeys(om *observability.ObservabilityManager) {
	err := s.loadAPIKeys()
	success := err == nil
	if err != nil {
		s.Logger.LogError(err, "Failed to reload API keys file", "file", s.APIKeysFile)
	} else {
		s.Logger.Info("API keys reloaded",
			"file", s.APIKeysFile,
			"active_keys", s.apiKeyCount())
	}

	om.GetMetrics().RecordBusinessMetric(context.Background(), "api_key_reload", success, om,
		attribute.Int("active_keys", s.apiKeyCount()))
}

// serve runs the HTTP server until it fails or a SIGINT/SIGTERM arrives.
func (s *Server) serve(server *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.shutdown(server)
	}
}

// shutdown stops the key watcher and rate limiter, then drains in-flight
// requests within the grace period before forcing the server closed.
func (s *Server) shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if s.keyWatcher != nil {
		if err := s.keyWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop API keys watcher")
		}
	}

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed")
	return nil
}
