package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumelens/internal/errors"

	"golang.org/x/time/rate"
)

// staleAfter controls how long an idle client keeps its limiter before
// the janitor evicts it.
const staleAfter = 10 * time.Minute

// clientLimiter pairs a token bucket with the last time its key was seen.
type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out per-key token buckets (keyed by API key or client IP)
// and evicts idle ones in the background.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	perSec  rate.Limit
	burst   int
	done    chan struct{}
	logger  *errors.Logger
}

// NewRateLimiter builds a limiter allowing requestsPerMin requests per minute
// with the given burst capacity. The window argument is accepted for config
// compatibility but the bucket refill rate is derived from requestsPerMin.
func NewRateLimiter(requestsPerMin int, _ time.Duration, burstCapacity int, logger *errors.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		perSec:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst:   burstCapacity,
		done:    make(chan struct{}),
		logger:  logger,
	}

	go rl.janitor(staleAfter)
	return rl
}

// GetLimiter returns the bucket for key, creating one on first sight.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{bucket: rate.NewLimiter(rl.perSec, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.bucket
}

// Allow reports whether a request under key may proceed. Non-blocking.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.GetLimiter(key).Allow()
}

// GetStats returns a snapshot for the stats endpoint.
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"active_limiters": len(rl.clients),
		"rate_per_second": float64(rl.perSec),
		"rate_per_minute": float64(rl.perSec) * 60.0,
		"burst_capacity":  rl.burst,
	}
}

// janitor evicts buckets whose keys have been idle longer than maxIdle.
func (rl *RateLimiter) janitor(maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(maxIdle)
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}

	if rl.logger != nil {
		rl.logger.Debug("Rate limiter eviction pass completed",
			"remaining_limiters", len(rl.clients))
	}
}

// Close stops the janitor goroutine. Call during server shutdown.
func (rl *RateLimiter) Close() {
	close(rl.done)
}

// rateLimitMiddleware rejects requests whose key has exhausted its bucket.
// When rate limiting is disabled it returns a passthrough wrapper.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey derives the bucket key for a request. API key takes
// precedence over client IP when both dimensions are enabled.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}

	if byIP {
		return "ip:" + getClientIP(r)
	}

	return ""
}

// getClientIP resolves the client address, honoring proxy headers first.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP returns the first syntactically valid IP in a
// comma-separated proxy chain.
func parseFirstIP(ips string) string {
	for ip := range strings.SplitSeq(ips, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ""
}
