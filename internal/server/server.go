// Package server exposes the dispatcher over HTTP: POST /call runs one
// invocation, GET /operations lists the selector table, and /health and
// /metrics serve probes and Prometheus scrapes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/detmath/internal/config"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/logging"
	"github.com/agbru/detmath/internal/service"
)

// Server is the detmath HTTP API.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	handler        http.Handler
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
	version        string
}

// NewServer builds a server around svc.
//
// Parameters:
//   - svc: The execution service that runs calls.
//   - cfg: The application configuration (port, timeout, limits).
//   - opts: Functional options such as WithLogger or WithRateLimiter.
//
// Returns:
//   - *Server: The initialized server. Call Start to serve.
func NewServer(svc service.Service, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		service:        svc,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}
	if cfg.Timeout > 0 {
		s.timeouts.RequestTimeout = cfg.Timeout
	}
	if cfg.MaxCalldata > 0 {
		// Hex doubles the byte count; the rest is JSON framing.
		s.securityConfig.MaxBodyBytes = int64(2*cfg.MaxCalldata + 4096)
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.rateLimiter == nil {
		rlc := DefaultRateLimiterConfig()
		rlc.TrustedProxies = cfg.TrustedProxies
		s.rateLimiter = NewRateLimiter(rlc)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/call", s.wrapWithMiddleware(s.handleCall))
	mux.HandleFunc("/operations", s.wrapWithMiddleware(s.handleOperations))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))
	s.handler = mux

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler { return s.handler }

// wrapWithMiddleware applies Security -> RateLimit -> Logging -> Metrics.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down
// gracefully within the shutdown timeout.
//
// Returns:
//   - error: A ServerError if listening fails or shutdown does not finish.
func (s *Server) Start(ctx context.Context) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.String("request_timeout", s.timeouts.RequestTimeout.String()),
			logging.Bool("strict", s.cfg.Strict),
		)
		s.logger.Println("Available endpoints: POST /call, GET /operations, GET /health, GET /metrics")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case <-ctx.Done():
		s.logger.Info("context done, shutting down")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
