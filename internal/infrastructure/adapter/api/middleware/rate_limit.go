package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu           sync.Mutex
	limiters     map[string]*clientLimiter
	rate         rate.Limit
	burst        int
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewRateLimiter creates a per-IP limiter allowing requestsPerSecond with the given burst
func NewRateLimiter(requestsPerSecond float64, burst int, timeProvider coreport.TimeProvider, logger coreport.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters:     make(map[string]*clientLimiter),
		rate:         rate.Limit(requestsPerSecond),
		burst:        burst,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Allow consumes a token for key
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.timeProvider.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		rl.evictIdle(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters not seen recently; callers hold mu
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(rl.limiters, key)
		}
	}
}

// Middleware rejects requests over the limit with the given handler
func (rl *RateLimiter) Middleware(reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			rl.logger.Warn("Rate limit exceeded", map[string]any{
				"client_ip":  key,
				"path":       c.Request.URL.Path,
				"request_id": GetRequestID(c),
			})
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
