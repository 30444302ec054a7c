package health

import (
	"context"
	"time"
)

// Status represents the health state of a dependency
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// DependencyHealth tracks the health of one external dependency
type DependencyHealth struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	LatencyMs   int       `json:"latencyMs"`
	LastChecked time.Time `json:"lastChecked"`
	LastError   string    `json:"lastError,omitempty"`
}

// CheckStrategy is the interface for dependency-specific health checks
type CheckStrategy interface {
	// Name identifies the dependency this strategy checks
	Name() string
	// Check performs a lightweight health probe
	Check(ctx context.Context) error
}
