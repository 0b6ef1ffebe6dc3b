package middlewares

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/locallibrary/internal"
	"github.com/dmitrymomot/locallibrary/pkg/cache"
)

// Limiter hands out one token bucket per key. Idle buckets expire from an
// LRU so memory stays bounded.
type Limiter struct {
	buckets *cache.Memory[*rate.Limiter]
	limit   rate.Limit
	burst   int
	idle    time.Duration
	mu      sync.Mutex
}

// NewLimiter allows burst events per key, refilled evenly over per.
func NewLimiter(burst int, per time.Duration, opts ...cache.MemoryOption) *Limiter {
	return &Limiter{
		buckets: cache.NewMemory[*rate.Limiter](opts...),
		limit:   rate.Every(per / time.Duration(burst)),
		burst:   burst,
		idle:    per,
	}
}

// Reserve takes a token for key. When none is left it returns false and
// how long until the next one.
func (l *Limiter) Reserve(ctx context.Context, key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.buckets.Get(ctx, key)
	if err != nil {
		b = rate.NewLimiter(l.limit, l.burst)
	}
	_ = l.buckets.Set(ctx, key, b, l.idle)

	r := b.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) Close() error {
	return l.buckets.Close()
}

// RateLimit rejects requests over l's rate, keyed by client IP, with 429 and
// a Retry-After header.
func RateLimit(l *Limiter) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ok, wait := l.Reserve(c, internal.ClientIP(c.Request()), time.Now())
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				c.SetHeader("Retry-After", strconv.Itoa(secs))
				c.LogWarn("rate limit exceeded", "path", c.Request().URL.Path)
				return internal.NewHTTPError(http.StatusTooManyRequests,
					"Too many sign-in attempts. Try again in a minute.")
			}
			return next(c)
		}
	}
}
