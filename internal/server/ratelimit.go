package server

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ipLimiter implements per-client rate limiting. Each client IP gets
// its own token bucket; buckets are created on first sight and live for
// the process lifetime.
type ipLimiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

func newIPLimiter(requestsPerSecond float64, burst int) *ipLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &ipLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Allow checks if a request from the given IP is allowed without waiting
func (l *ipLimiter) Allow(ip string) bool {
	return l.getLimiter(ip).Allow()
}

func (l *ipLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[ip]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[ip] = limiter
	return limiter
}

// rateLimitMiddleware rejects clients that exceed their budget with 429
func rateLimitMiddleware(limiter *ipLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
