// Package health reports the health of a running DEX host.
//
// The checker serves three endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Component status with metrics
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Source is the host state the checker probes.
type Source interface {
	// Height returns the last committed height.
	Height() int64
	// PoolCount reads the pool registry from committed state.
	PoolCount() (int, error)
	// AssertInvariants runs every registered invariant.
	AssertInvariants() error
}

// Checker performs health checks on the host
type Checker struct {
	logger log.Logger
	source Source

	version         string
	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported in every response.
	Version string

	// MaxResponseTime is the store read time above which the store is degraded.
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, source Source) (*Checker, error) {
	if source == nil {
		return nil, fmt.Errorf("health source is required")
	}
	return &Checker{
		logger:          logger,
		source:          source,
		version:         cfg.Version,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

type check struct {
	name string
	fn   func(context.Context) ComponentHealth
}

// Check probes every component. Invariants are only asserted when detailed
// is set since they walk every pool.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth, nil
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Version:    c.version,
		Components: make(map[string]ComponentHealth),
	}

	checks := []check{
		{"store", c.checkStore},
		{"pools", c.checkPools},
	}
	if detailed {
		checks = append(checks, check{"invariants", c.checkInvariants})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, chk := range checks {
		wg.Add(1)
		go func(chk check) {
			defer wg.Done()
			result := chk.fn(ctx)
			mu.Lock()
			health.Components[chk.name] = result
			mu.Unlock()
		}(chk)
	}
	wg.Wait()

	health.Status = c.calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}
	return health, nil
}

// checkStore verifies the committed store answers reads.
func (c *Checker) checkStore(_ context.Context) ComponentHealth {
	start := time.Now()
	height := c.source.Height()
	duration := time.Since(start)

	metrics := map[string]interface{}{
		"height":        height,
		"query_time_ms": duration.Milliseconds(),
	}

	status, message := StatusHealthy, "store is responsive"
	if height == 0 {
		status, message = StatusDegraded, "chain not initialised"
	}
	if duration > c.maxResponseTime {
		status, message = StatusDegraded, "store response time is degraded"
	}
	return ComponentHealth{Status: status, Message: message, Timestamp: time.Now(), Metrics: metrics}
}

// checkPools reads the pool registry.
func (c *Checker) checkPools(_ context.Context) ComponentHealth {
	n, err := c.source.PoolCount()
	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("pool registry unreadable: %v", err),
			Timestamp: time.Now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d pools", n),
		Timestamp: time.Now(),
		Metrics:   map[string]interface{}{"pool_count": n},
	}
}

// checkInvariants asserts the module invariants on committed state.
func (c *Checker) checkInvariants(_ context.Context) ComponentHealth {
	if err := c.source.AssertInvariants(); err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error(), Timestamp: time.Now()}
	}
	return ComponentHealth{Status: StatusHealthy, Message: "all invariants hold", Timestamp: time.Now()}
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// shouldUseCached determines if cached health check results should be used
func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}
	return time.Since(c.lastCheck) < c.cacheDuration
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, false)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, true)
}

func (c *Checker) respond(w http.ResponseWriter, r *http.Request, detailed bool) {
	health, err := c.Check(r.Context(), detailed)
	if err != nil {
		c.logger.Error("health check failed", "detailed", detailed, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
