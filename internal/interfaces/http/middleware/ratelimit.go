package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. A budget of n
// requests per window refills continuously at n/window and bursts to n.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	interval time.Duration
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each key
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		interval: window / time.Duration(requests),
		burst:    requests,
		idle:     window,
	}
}

func (rl *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow consumes a token for key and reports the tokens left
func (rl *RateLimiter) Allow(key string) (bool, int) {
	now := time.Now()
	lim := rl.get(key, now)
	ok := lim.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(lim.TokensAt(now))))
	return ok, remaining
}

// Burst is the bucket size, reported as X-RateLimit-Limit
func (rl *RateLimiter) Burst() int { return rl.burst }

// Sweep drops buckets idle for longer than a full window, which are
// full again anyway
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.Sweep(now)
		}
	}
}

// KeyFunc picks the bucket a request is charged to
type KeyFunc func(c *gin.Context) string

// ClientIPKey charges requests to the client address gin resolved
// through the trusted proxies
func ClientIPKey(c *gin.Context) string { return c.ClientIP() }

// RateLimit answers 429 with the envelope once a key runs dry
func RateLimit(rl *RateLimiter, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientIPKey
	}
	limit := strconv.Itoa(rl.Burst())
	return func(c *gin.Context) {
		ok, remaining := rl.Allow(key(c))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.interval.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.Failure(dto.CodeRateLimited, "Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
