package rate_limiter

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding-window limiter keyed by client.
type RateLimiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
	stopped chan struct{}
	once    sync.Once
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopped: make(chan struct{}),
	}
}

// Run evicts idle clients every interval until ctx is done or Stop is called.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rl.stopped:
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopped) })
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for key := range rl.hits {
		if live := rl.prune(key, windowStart); len(live) == 0 {
			delete(rl.hits, key)
		}
	}
}

// prune must be called with mu held.
func (rl *RateLimiter) prune(key string, windowStart time.Time) []time.Time {
	times := rl.hits[key]
	live := times[:0]
	for _, t := range times {
		if t.After(windowStart) {
			live = append(live, t)
		}
	}
	rl.hits[key] = live
	return live
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.prune(key, now.Add(-rl.window))) >= rl.limit {
		return false
	}

	rl.hits[key] = append(rl.hits[key], now)
	return true
}

func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.limit - len(rl.prune(key, rl.now().Add(-rl.window)))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ClientKey prefers the authenticated user and falls back to the client IP.
func ClientKey(c *gin.Context) string {
	if user, err := security.CurrentUser(c); err == nil {
		return "user:" + user.ID
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c)
		if !rl.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "Too many requests, try again later"})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
		c.Next()
	}
}
