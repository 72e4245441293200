package server

import (
	"log"
	"time"

	"github.com/agbru/detmath/internal/logging"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Nil keeps the default.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger routes server logs to a standard library logger.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithTimeouts replaces the timeout configuration.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// WithRateLimiter replaces the per-client rate limiter.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		s.rateLimiter = rl
	}
}

// WithSecurityConfig replaces the security headers and body limit.
func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) {
		s.securityConfig = config
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Timeouts holds timeout configuration for the HTTP server.
type Timeouts struct {
	// RequestTimeout bounds a single invocation.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts returns timeouts sized for sub-millisecond calls.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
