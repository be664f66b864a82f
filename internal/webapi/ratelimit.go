package webapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware caps requests per client address with a token bucket
// refilling perMinute tokens per minute (burst = perMinute). Clients over
// the limit get a 429 with the uniform error body.
func RateLimitMiddleware(next http.Handler, perMinute int) http.Handler {
	l := &clientLimiters{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: map[string]*rate.Limiter{},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientAddr(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, retry later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientLimiters holds one token bucket per client address. Entries are
// small and never evicted; the set of distinct clients is bounded in
// practice by who can reach the server.
type clientLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func (l *clientLimiters) allow(addr string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[addr]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[addr] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// clientAddr keys the limiter by remote host, ignoring the ephemeral port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
