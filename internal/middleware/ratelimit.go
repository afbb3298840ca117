package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"nursery-service/pkg/logger"
)

// RateLimiterConfig configuration for rate limiting
type RateLimiterConfig struct {
	// Requests per minute
	RPM int
	// Burst size
	Burst int
	// Idle clients are forgotten after this long
	IdleTimeout time.Duration
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	config    RateLimiterConfig
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RPM <= 0 {
		config.RPM = 20
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = 10 * time.Minute
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether a request from clientID may proceed now.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.config.IdleTimeout {
		for id, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.config.IdleTimeout {
				delete(rl.clients, id)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[clientID]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.config.RPM)), rl.config.Burst),
		}
		rl.clients[clientID] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				logger.FromEcho(c).Warn("Rate limit exceeded")
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(time.Minute/time.Duration(rl.config.RPM)/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many requests, try again later"})
			}
			return next(c)
		}
	}
}
