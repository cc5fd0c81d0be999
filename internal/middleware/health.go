package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by *sql.DB; redis is adapted in the container.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthStatus struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	LastChecked time.Time         `json:"last_checked"`
	Uptime      string            `json:"uptime"`
	Version     string            `json:"version"`
}

// HealthChecker pings its dependencies at most once per cacheFor and serves
// the cached status in between.
type HealthChecker struct {
	mu       sync.Mutex
	checks   map[string]Pinger
	version  string
	started  time.Time
	cacheFor time.Duration
	last     *HealthStatus
	now      func() time.Time
}

func NewHealthChecker(version string, checks map[string]Pinger) *HealthChecker {
	return &HealthChecker{
		checks:   checks,
		version:  version,
		started:  time.Now(),
		cacheFor: 5 * time.Second,
		now:      time.Now,
	}
}

func (h *HealthChecker) Status(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.last != nil && now.Sub(h.last.LastChecked) < h.cacheFor {
		return *h.last
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:      "ok",
		Checks:      make(map[string]string, len(h.checks)),
		LastChecked: now,
		Uptime:      now.Sub(h.started).Round(time.Second).String(),
		Version:     h.version,
	}
	for name, pinger := range h.checks {
		if err := pinger.PingContext(ctx); err != nil {
			status.Status = "degraded"
			status.Checks[name] = "error"
			continue
		}
		status.Checks[name] = "ok"
	}

	h.last = &status
	return status
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.Status(c.Request.Context())
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"ok": code == http.StatusOK, "data": status})
	}
}
