package ratelimit

import (
	"sync"
	"time"

	xhttp "TradeLLM/pkg/http"

	"github.com/labstack/echo/v4"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Every key gets capacity tokens that
// refill at refillPerSec.
type Limiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	now          func() time.Time
}

func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		now:          time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillPerSec
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Prune drops buckets idle long enough to be full again.
func (l *Limiter) Prune() int {
	if l.refillPerSec <= 0 {
		return 0
	}
	full := time.Duration(l.capacity / l.refillPerSec * float64(time.Second))
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, b := range l.m {
		if now.Sub(b.last) >= full {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Middleware limits requests per client IP and answers 429 when a bucket is empty.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded, retry later"))
			}
			return next(c)
		}
	}
}
