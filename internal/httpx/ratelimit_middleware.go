package httpx

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles write requests per client. Authenticated
// callers are keyed by account; anonymous callers by their address.
type RateLimitMiddleware struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	stopped chan struct{}

	// trustProxy honours the first X-Forwarded-For hop. Only enable it
	// behind a proxy that overwrites the header.
	trustProxy bool
}

// NewRateLimitMiddleware starts a limiter whose idle entries are evicted
// until ctx is cancelled.
func NewRateLimitMiddleware(ctx context.Context, rps float64, burst int, trustProxy bool) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		clients:    make(map[string]*clientLimiter),
		rate:       rate.Limit(rps),
		burst:      burst,
		idleTTL:    limiterIdleTTL,
		now:        time.Now,
		stopped:    make(chan struct{}),
		trustProxy: trustProxy,
	}

	go rl.evictIdle(ctx)
	return rl
}

func (rl *RateLimitMiddleware) evictIdle(ctx context.Context) {
	defer close(rl.stopped)

	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops limiters not used within idleTTL and returns how many were dropped.
func (rl *RateLimitMiddleware) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	removed := 0
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// Done is closed once the eviction loop has exited.
func (rl *RateLimitMiddleware) Done() <-chan struct{} {
	return rl.stopped
}

func (rl *RateLimitMiddleware) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = rl.now()
	return c.limiter.Allow()
}

func (rl *RateLimitMiddleware) clientKey(r *http.Request) string {
	if id := AccountIDFrom(r); id != "" {
		return "account:" + id
	}
	if rl.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if first = strings.TrimSpace(first); first != "" {
				return "ip:" + first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
