package server

import (
	"net/http"
	"strings"
)

// SecurityConfig holds the response hardening and request limits.
type SecurityConfig struct {
	EnableCORS     bool
	AllowedOrigins []string // "*" allows every origin
	AllowedMethods []string
	// MaxBodyBytes bounds POST bodies.
	MaxBodyBytes int64
}

// DefaultSecurityConfig returns the default security configuration.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxBodyBytes:   1 << 16,
	}
}

// SecurityMiddleware sets defensive response headers, answers CORS
// preflight requests and caps the request body size.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				h.Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if config.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes)
		}
		next(w, r)
	}
}

func allowedOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return a
		}
	}
	return ""
}
