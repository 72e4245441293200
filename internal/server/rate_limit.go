package server

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"
)

// RateLimiter admits at most a fixed number of requests per client IP in
// each one-minute window.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*window
	limit    int
	period   time.Duration
	trusted  []netip.Prefix
	stopOnce sync.Once
	stop     chan struct{}
}

type window struct {
	start time.Time
	used  int
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute per client. Default 600.
	RequestsPerMinute int
	// CleanupInterval is how often idle clients are forgotten. Default 5m.
	CleanupInterval time.Duration
	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Headers from
	// any other peer are ignored. Invalid entries are skipped.
	TrustedProxies []string
}

// DefaultRateLimiterConfig returns the default rate limiter configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{RequestsPerMinute: 600, CleanupInterval: 5 * time.Minute}
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine. Call
// Stop to release it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   config.RequestsPerMinute,
		period:  time.Minute,
		trusted: ParseTrustedProxies(config.TrustedProxies),
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop(config.CleanupInterval)
	return rl
}

// Allow reports whether clientIP may make another request now.
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[clientIP]
	if !ok || now.Sub(w.start) >= rl.period {
		rl.clients[clientIP] = &window{start: now, used: 1}
		return true
	}
	if w.used >= rl.limit {
		return false
	}
	w.used++
	return true
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for ip, w := range rl.clients {
				if now.Sub(w.start) > 2*rl.period {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// ParseTrustedProxies converts addresses and CIDR ranges into prefixes,
// dropping entries that parse as neither.
func ParseTrustedProxies(entries []string) []netip.Prefix {
	var out []netip.Prefix
	for _, e := range entries {
		if p, ok := parseProxy(e); ok {
			out = append(out, p)
		}
	}
	return out
}

func parseProxy(entry string) (netip.Prefix, bool) {
	entry = strings.TrimSpace(entry)
	if p, err := netip.ParsePrefix(entry); err == nil {
		return p.Masked(), true
	}
	if a, err := netip.ParseAddr(entry); err == nil {
		a = a.Unmap()
		return netip.PrefixFrom(a, a.BitLen()), true
	}
	return netip.Prefix{}, false
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the address a request is accounted to. Forwarding
// headers count only when the direct peer is a trusted proxy; the
// X-Forwarded-For chain is then walked from the right, skipping trusted
// hops, and the first other address wins.
func (rl *RateLimiter) ClientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !rl.isTrusted(peer) {
		return peer
	}
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		if !rl.isTrusted(hop) {
			return hop
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}

// RateLimitMiddleware rejects over-limit clients with 429.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.ClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`))
			return
		}
		next(w, r)
	}
}

// remoteHost strips the port from a RemoteAddr.
func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}
