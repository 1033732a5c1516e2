package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Name      string                 `json:"name"`
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
}

// SystemHealth represents the overall system health
type SystemHealth struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     time.Duration              `json:"uptime"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthChecker interface for health checking
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
}

// HealthService manages health checks for the system
type HealthService interface {
	RegisterChecker(checker HealthChecker)
	CheckHealth(ctx context.Context) SystemHealth
	CheckComponent(ctx context.Context, name string) (ComponentHealth, error)
	GetSystemInfo() map[string]interface{}
}

// DefaultHealthService implements HealthService
type DefaultHealthService struct {
	mu        sync.RWMutex
	checkers  map[string]HealthChecker
	startTime time.Time
	version   string
	logger    Logger
}

// NewHealthService creates a new health service
func NewHealthService(version string, logger Logger) *DefaultHealthService {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &DefaultHealthService{
		checkers:  make(map[string]HealthChecker),
		startTime: time.Now(),
		version:   version,
		logger:    logger,
	}
}

// RegisterChecker registers a health checker
func (h *DefaultHealthService) RegisterChecker(checker HealthChecker) {
	h.mu.Lock()
	h.checkers[checker.Name()] = checker
	h.mu.Unlock()
	h.logger.Info("health checker registered", String("component", checker.Name()))
}

// CheckHealth performs health checks on all registered components. A single
// unhealthy dependency marks the system unhealthy; a degraded one only lowers
// the status when everything else is fine.
func (h *DefaultHealthService) CheckHealth(ctx context.Context) SystemHealth {
	start := time.Now()

	h.mu.RLock()
	checkers := make([]HealthChecker, 0, len(h.checkers))
	for _, checker := range h.checkers {
		checkers = append(checkers, checker)
	}
	h.mu.RUnlock()

	components := make(map[string]ComponentHealth)
	overallStatus := HealthStatusHealthy

	for _, checker := range checkers {
		componentHealth := h.checkComponentWithTimeout(ctx, checker, 5*time.Second)
		components[checker.Name()] = componentHealth

		switch componentHealth.Status {
		case HealthStatusUnhealthy:
			overallStatus = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overallStatus == HealthStatusHealthy {
				overallStatus = HealthStatusDegraded
			}
		}
	}

	systemHealth := SystemHealth{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     time.Since(h.startTime),
		Version:    h.version,
		Components: components,
	}

	h.logger.Info("health check completed",
		String("status", string(overallStatus)),
		Duration("duration", time.Since(start)),
		Int("components_checked", len(components)))

	return systemHealth
}

// CheckComponent checks the health of a specific component
func (h *DefaultHealthService) CheckComponent(ctx context.Context, name string) (ComponentHealth, error) {
	h.mu.RLock()
	checker, exists := h.checkers[name]
	h.mu.RUnlock()
	if !exists {
		return ComponentHealth{}, fmt.Errorf("component %s not found", name)
	}

	return h.checkComponentWithTimeout(ctx, checker, 5*time.Second), nil
}

// GetSystemInfo returns general system information
func (h *DefaultHealthService) GetSystemInfo() map[string]interface{} {
	h.mu.RLock()
	count := len(h.checkers)
	h.mu.RUnlock()

	return map[string]interface{}{
		"version":    h.version,
		"uptime":     time.Since(h.startTime).String(),
		"start_time": h.startTime.Format(time.RFC3339),
		"components": count,
	}
}

// checkComponentWithTimeout checks a component with a timeout
func (h *DefaultHealthService) checkComponentWithTimeout(ctx context.Context, checker HealthChecker, timeout time.Duration) ComponentHealth {
	start := time.Now()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultChan := make(chan ComponentHealth, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- ComponentHealth{
					Name:      checker.Name(),
					Status:    HealthStatusUnhealthy,
					Message:   fmt.Sprintf("Health check panicked: %v", r),
					Timestamp: time.Now(),
					Duration:  time.Since(start),
				}
			}
		}()

		result := checker.Check(timeoutCtx)
		result.Duration = time.Since(start)
		resultChan <- result
	}()

	select {
	case result := <-resultChan:
		return result
	case <-timeoutCtx.Done():
		return ComponentHealth{
			Name:      checker.Name(),
			Status:    HealthStatusUnhealthy,
			Message:   "Health check timed out",
			Timestamp: time.Now(),
			Duration:  timeout,
		}
	}
}

// Pinger is anything that can confirm its backing store is reachable. Both
// the Gremlin client and the Postgres store satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHealthChecker reports health from a Ping round trip.
type PingHealthChecker struct {
	name   string
	pinger Pinger
}

// NewPingHealthChecker creates a checker for a pingable dependency.
func NewPingHealthChecker(name string, pinger Pinger) *PingHealthChecker {
	return &PingHealthChecker{
		name:   name,
		pinger: pinger,
	}
}

// Name returns the checker name
func (p *PingHealthChecker) Name() string {
	return p.name
}

// Check performs the connectivity check
func (p *PingHealthChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()

	err := p.pinger.Ping(ctx)

	health := ComponentHealth{
		Name:      p.name,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}

	if err != nil {
		health.Status = HealthStatusUnhealthy
		health.Message = err.Error()
	} else {
		health.Status = HealthStatusHealthy
		health.Message = "Connection successful"
	}

	return health
}

// GenerationHealthChecker reports whether LLM-backed translation is
// available. A missing API key is degraded, not unhealthy: the service keeps
// answering through fallback translation.
type GenerationHealthChecker struct {
	name   string
	client *GeminiClient
}

// NewGenerationHealthChecker creates a generation availability checker.
func NewGenerationHealthChecker(name string, client *GeminiClient) *GenerationHealthChecker {
	return &GenerationHealthChecker{
		name:   name,
		client: client,
	}
}

// Name returns the checker name
func (g *GenerationHealthChecker) Name() string {
	return g.name
}

// Check reports generation availability
func (g *GenerationHealthChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()

	health := ComponentHealth{
		Name:      g.name,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}

	if g.client == nil || !g.client.Configured() {
		health.Status = HealthStatusDegraded
		health.Message = "Generation API key not configured; translations use fallback patterns"
		return health
	}

	health.Status = HealthStatusHealthy
	health.Message = "Generation API configured"
	return health
}

// CacheHealthChecker checks the translation cache with a round trip.
type CacheHealthChecker struct {
	name  string
	cache TranslationCache
}

// NewCacheHealthChecker creates a cache health checker
func NewCacheHealthChecker(name string, cache TranslationCache) *CacheHealthChecker {
	return &CacheHealthChecker{
		name:  name,
		cache: cache,
	}
}

// Name returns the checker name
func (c *CacheHealthChecker) Name() string {
	return c.name
}

// Check performs the cache health check
func (c *CacheHealthChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()

	health := ComponentHealth{
		Name:      c.name,
		Timestamp: time.Now(),
	}

	stats := c.cache.GetStats()

	health.Status = HealthStatusHealthy
	health.Message = "Cache operational"
	health.Duration = time.Since(start)
	health.Details = map[string]interface{}{
		"hit_rate": stats.HitRate,
		"size":     stats.Size,
		"max_size": stats.MaxSize,
	}

	return health
}
