package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL evicts clients not seen for this long. Zero keeps them forever.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		IdleTTL:           10 * time.Minute,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientTable struct {
	mu        sync.Mutex
	clients   map[string]*client
	cfg       RateLimitConfig
	lastSweep time.Time
}

func (t *clientTable) limiter(ip string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cfg.IdleTTL > 0 && now.Sub(t.lastSweep) > t.cfg.IdleTTL {
		for key, c := range t.clients {
			if now.Sub(c.lastSeen) > t.cfg.IdleTTL {
				delete(t.clients, key)
			}
		}
		t.lastSweep = now
	}

	c, ok := t.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(t.cfg.RequestsPerSecond), t.cfg.Burst)}
		t.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (t *clientTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return rateLimit(&clientTable{
		clients:   make(map[string]*client),
		cfg:       cfg,
		lastSweep: time.Now(),
	})
}

func rateLimit(table *clientTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !table.limiter(c.ClientIP(), time.Now()).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
}
