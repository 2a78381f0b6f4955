package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"jobharvest/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Checker is anything with a health probe (redis, the store).
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports readiness and per-component health.
type HealthHandler struct {
	log        *logger.Logger
	components map[string]Checker
	startTime  time.Time
	isReady    atomic.Bool
}

func NewHealthHandler(components map[string]Checker) *HealthHandler {
	return &HealthHandler{
		log:        logger.New("HealthCheck"),
		components: components,
		startTime:  time.Now(),
	}
}

// SetReady marks the application as ready to receive traffic. Safe to call
// from the startup goroutine while health requests are already being served.
func (h *HealthHandler) SetReady() {
	h.isReady.Store(true)
	h.log.LogInfof("application ready for traffic after %v", time.Since(h.startTime))
}

type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type OverallHealth struct {
	OverallStatus string                     `json:"overall_status"`
	Timestamp     string                     `json:"timestamp"`
	Ready         bool                       `json:"ready"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Components    map[string]ComponentStatus `json:"components"`
}

// HandleHealth probes all components concurrently and reports the overall
// status.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	statuses := make(map[string]ComponentStatus)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allOk := true

	for name, checker := range h.components {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			status := ComponentStatus{Status: "ok"}
			if err := checker.HealthCheck(ctx); err != nil {
				status = ComponentStatus{Status: "error", Error: err.Error()}
			}
			mu.Lock()
			statuses[name] = status
			if status.Status != "ok" {
				allOk = false
			}
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	ready := h.isReady.Load()
	response := OverallHealth{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Ready:         ready,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Components:    statuses,
	}

	if allOk && ready {
		response.OverallStatus = "ok"
		return c.Status(http.StatusOK).JSON(response)
	}
	if !ready {
		response.OverallStatus = "starting"
		return c.Status(http.StatusServiceUnavailable).JSON(response)
	}
	response.OverallStatus = "error"
	h.log.LogWarnf("health check failed: %+v", statuses)
	return c.Status(http.StatusServiceUnavailable).JSON(response)
}

func HealthLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "Rate limit exceeded"})
		},
	})
}
