package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy HealthStatus = "healthy"
	// StatusUnhealthy indicates the component is not operational.
	StatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health status of a single component.
type ComponentStatus struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
}

// Pinger is an interface for components that can be pinged.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker performs health checks against the log store.
type Checker struct {
	pinger    Pinger
	startTime time.Time
	version   string
	timeout   time.Duration
	mu        sync.RWMutex
}

// NewChecker creates a new health checker.
func NewChecker(pinger Pinger, version string) *Checker {
	return &Checker{
		pinger:    pinger,
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// SetTimeout sets the timeout for health checks.
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Check performs all health checks and returns the aggregated response.
func (c *Checker) Check(ctx context.Context) *HealthResponse {
	c.mu.RLock()
	timeout := c.timeout
	c.mu.RUnlock()

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	components := map[string]ComponentStatus{
		"store": c.checkStore(checkCtx),
	}

	overall := StatusHealthy
	for _, comp := range components {
		if comp.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			break
		}
	}

	return &HealthResponse{
		Status:     overall,
		Components: components,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
	}
}

// checkStore verifies log store connectivity.
func (c *Checker) checkStore(ctx context.Context) ComponentStatus {
	if c.pinger == nil {
		return ComponentStatus{
			Status:  StatusUnhealthy,
			Message: "store not configured",
		}
	}

	if err := c.pinger.Ping(ctx); err != nil {
		return ComponentStatus{
			Status:  StatusUnhealthy,
			Message: "store ping failed: " + err.Error(),
		}
	}

	return ComponentStatus{
		Status:  StatusHealthy,
		Message: "connected",
	}
}

// Handler returns an HTTP handler for health checks.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if response.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}
