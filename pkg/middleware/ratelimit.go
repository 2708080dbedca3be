package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client holds a token bucket for one remote address.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientStore keeps per-address limiters and evicts ones idle past ttl.
type clientStore struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     int
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

func newClientStore(rps, burst int, ttl time.Duration) *clientStore {
	s := &clientStore{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
	go s.evictLoop()
	return s
}

func (s *clientStore) limiterFor(addr string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.clients[addr] = c
	}
	c.lastSeen = s.now()
	return c.limiter
}

func (s *clientStore) evictLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.evictStale()
	}
}

func (s *clientStore) evictStale() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for addr, c := range s.clients {
		if now.Sub(c.lastSeen) > s.ttl {
			delete(s.clients, addr)
		}
	}
}

func (s *clientStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit enforces a per-client-IP token bucket. Requests over the limit
// get 429 with the standard error envelope. Mounted on the public auth and
// catalog routes, which take unauthenticated traffic.
func RateLimit(rps, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	const evictInterval = 3 * time.Minute
	store := newClientStore(rps, burst, evictInterval)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r)
			if !store.limiterFor(addr).Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("client", addr),
					slog.String("path", r.URL.Path),
				)
				writeRateLimitError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr resolves the client address, trusting X-Forwarded-For and
// X-Real-IP ahead of the socket peer.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop in the chain is the original client.
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "RATE_LIMITED",
			"message": "too many requests",
		},
	})
}
