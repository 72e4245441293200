package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/detmath/internal/logging"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// loggingMiddleware tags each request with an identifier, echoed in the
// response, and records method, path, client and latency at debug level.
// A valid UUID supplied by the client is kept; anything else is replaced.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next(w, r)
		s.logger.Debug("request",
			logging.String("request_id", id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("client", s.rateLimiter.ClientIP(r)),
			logging.String("elapsed", time.Since(start).String()),
		)
	}
}
