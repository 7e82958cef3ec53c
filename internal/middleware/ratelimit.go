package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per authenticated user. Buckets idle
// long enough to have refilled are dropped, since a fresh bucket behaves the
// same.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idle:     refillTime(limit, burst),
		now:      time.Now,
	}
}

// refillTime is how long an untouched bucket takes to become full again.
// Zero disables eviction.
func refillTime(limit rate.Limit, burst int) time.Duration {
	switch {
	case limit == rate.Inf:
		return time.Minute
	case limit <= 0:
		return 0
	}
	return time.Duration(float64(burst) / float64(limit) * float64(time.Second))
}

// allow takes a token from key's bucket.
func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

// sweep runs at most once per idle period. l.mu must be held.
func (l *RateLimiter) sweep(now time.Time) {
	if l.idle <= 0 || now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.seen) >= l.idle {
			delete(l.visitors, key)
		}
	}
}

// Limit answers 429 once the caller exhausts its bucket. It must run after
// Authenticate; anonymous callers share one bucket.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _ := UserID(r.Context())
		if !l.allow(key) {
			writeMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
