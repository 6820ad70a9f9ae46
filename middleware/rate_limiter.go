// middleware/rate_limiter.go
package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/tripnest/tripnest_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		mu:             &sync.RWMutex{},
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
	}

	// Login endpoint - strict rate limiting to prevent brute force attacks
	limiter.endpointLimits["/api/auth/login"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}

	limiter.endpointLimits["/api/auth/forgot-password"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 3,
	}

	// Lead search is hit on every keystroke of the dedup lookup
	limiter.endpointLimits["/api/leads/search"] = endpointLimit{
		limit: rate.Every(50 * time.Millisecond), // 20 requests per second
		burst: 50,
	}

	// Start cleanup routine
	go limiter.cleanupBlockedIPs()

	return limiter
}

func (r *RateLimiter) cleanupBlockedIPs() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		now := time.Now()
		for ip, blockUntil := range r.blockedIPs {
			if now.After(blockUntil) {
				delete(r.blockedIPs, ip)
				// Also remove the limiter to reset its state
				delete(r.ips, ip)
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) getLimiter(ip, path string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ip + path
	limiter, exists := r.ips[key]
	if !exists {
		limit := r.defaultLimit
		burst := r.defaultBurst
		for endpoint, el := range r.endpointLimits {
			if strings.HasPrefix(path, endpoint) {
				limit = el.limit
				burst = el.burst
				break
			}
		}
		limiter = rate.NewLimiter(limit, burst)
		r.ips[key] = limiter
	}
	return limiter
}

// RateLimit limits requests per client IP, with per-endpoint overrides.
// Abusive IPs are blocked for blockDuration.
func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			path := c.Request().URL.Path

			r.mu.RLock()
			blockUntil, blocked := r.blockedIPs[ip]
			r.mu.RUnlock()

			if blocked && time.Now().Before(blockUntil) {
				return c.JSON(429, models.Response{
					Status:  429,
					Message: "Too many requests. Please try again later.",
				})
			}

			if !r.getLimiter(ip, path).Allow() {
				r.mu.Lock()
				r.blockedIPs[ip] = time.Now().Add(r.blockDuration)
				r.mu.Unlock()

				return c.JSON(429, models.Response{
					Status:  429,
					Message: "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
