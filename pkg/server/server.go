package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/handlers"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/middleware"
)

// Server is the gateway's HTTP front end.
type Server struct {
	config       config.ServerConfig
	metricsCfg   config.MetricsConfig
	gateway      *handlers.Gateway
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	boundAddr    string

	// OnListen runs once the listener is bound, before serving. The
	// gateway uses it to flip the readiness flag.
	OnListen func()
}

// NewServer creates a gateway server around the given handlers.
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, gw *handlers.Gateway) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		gateway:      gw,
		shutdownChan: make(chan struct{}),
	}
}

// Start binds the listener and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	// ReadTimeout stays zero: it would bound reading the entire request
	// including the body, which cuts off slow video uploads. Only the
	// headers get a deadline.
	s.httpServer = &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		MaxHeaderBytes:    s.config.MaxHeaderBytes,
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("failed to bind %s: %w", s.config.ListenAddress, err)
	}

	s.mu.Lock()
	s.boundAddr = listener.Addr().String()
	s.mu.Unlock()

	slog.Info("gateway listening", "address", listener.Addr().String())
	if s.OnListen != nil {
		s.OnListen()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Signal handling is the command's business; Start only watches its
	// context and the explicit shutdown channel.
	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Addr returns the listener's bound address, empty before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundAddr
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	gw := s.gateway

	// Page routes.
	mux.Handle("GET /{$}", gw.Instrument("list", "metadata", gw.HandleList))
	mux.Handle("GET /video", gw.Instrument("play", "metadata", gw.HandlePlay))
	mux.Handle("GET /history", gw.Instrument("history", "history", gw.HandleHistory))
	mux.Handle("GET /upload", gw.Instrument("upload_page", "", gw.HandleUploadPage))

	// Streaming routes.
	mux.Handle("GET /api/video", gw.Instrument("video_stream", "streaming", gw.HandleVideoStream))
	mux.Handle("POST /api/upload", gw.Instrument("upload", "upload", gw.HandleUpload))

	// Operational routes.
	mux.Handle("GET /readiness", gw.Instrument("readiness", "metadata", gw.HandleReadiness))
	mux.Handle("GET /health", gw.Instrument("health", "", gw.HandleHealth))
	if s.metricsCfg.Enabled && gw.Metrics != nil {
		mux.Handle("GET "+s.metricsCfg.Path, gw.Metrics.Handler())
	}

	// Everything else.
	mux.Handle("/", gw.Instrument("not_found", "", gw.HandleNotFound))

	// Apply middleware chain, outermost last.
	var handler http.Handler = mux

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ClientIPMiddleware(handler)
	handler = middleware.CorrelationMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// Handler returns the configured HTTP handler. Used by tests to drive
// the full chain without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
