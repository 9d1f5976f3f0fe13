package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/kbukum/habit/errors"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate allowed per key, which may also
	// arrive as a single burst. Zero disables limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// RateLimit gives every key a token bucket of RequestsPerMinute tokens that
// refills over one minute. Over-limit requests get 429 RATE_LIMITED with a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	limiters := newLimiterRegistry(cfg.RequestsPerMinute, time.Now)

	return func(c *gin.Context) {
		if wait, ok := limiters.allow(cfg.KeyFunc(c)); !ok {
			err := apperrors.RateLimited()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
			return
		}
		c.Next()
	}
}

// sweepEvery bounds how often idle keys are dropped.
const sweepEvery = 1024

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterRegistry holds one rate.Limiter per key. A key idle for a full
// refill period has a full bucket again, so its limiter can be dropped.
type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	perMin   int
	idle     time.Duration
	now      func() time.Time
	calls    int
}

func newLimiterRegistry(perMinute int, now func() time.Time) *limiterRegistry {
	return &limiterRegistry{
		limiters: make(map[string]*limiterEntry),
		perMin:   perMinute,
		idle:     time.Minute,
		now:      now,
	}
}

// allow takes one token for key. When none is available it returns how long
// until one will be.
func (r *limiterRegistry) allow(key string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.calls++
	if r.calls%sweepEvery == 0 {
		r.sweep(now)
	}

	entry, ok := r.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMin)), r.perMin),
		}
		r.limiters[key] = entry
	}
	entry.lastSeen = now

	res := entry.limiter.ReserveN(now, 1)
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return wait, false
	}
	return 0, true
}

func (r *limiterRegistry) sweep(now time.Time) {
	for key, entry := range r.limiters {
		if now.Sub(entry.lastSeen) >= r.idle {
			delete(r.limiters, key)
		}
	}
}
