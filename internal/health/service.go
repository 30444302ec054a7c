package health

import (
	"context"
	"sync"
	"time"
)

// Service runs dependency health checks and caches the results for the
// health endpoint
type Service struct {
	mu         sync.RWMutex
	strategies []CheckStrategy
	results    map[string]*DependencyHealth
	timeout    time.Duration
}

// NewService creates a health service
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		results: make(map[string]*DependencyHealth),
		timeout: timeout,
	}
}

// Register adds a dependency check
func (s *Service) Register(strategy CheckStrategy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strategies = append(s.strategies, strategy)
	s.results[strategy.Name()] = &DependencyHealth{
		Name:   strategy.Name(),
		Status: StatusUnknown,
	}
}

// RunChecks probes every registered dependency and refreshes the cache
func (s *Service) RunChecks(ctx context.Context) {
	s.mu.RLock()
	strategies := make([]CheckStrategy, len(s.strategies))
	copy(strategies, s.strategies)
	s.mu.RUnlock()

	for _, strategy := range strategies {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		err := strategy.Check(checkCtx)
		cancel()

		result := &DependencyHealth{
			Name:        strategy.Name(),
			Status:      StatusHealthy,
			LatencyMs:   int(time.Since(start).Milliseconds()),
			LastChecked: time.Now().UTC(),
		}
		if err != nil {
			result.Status = StatusUnhealthy
			result.LastError = err.Error()
		}

		s.mu.Lock()
		s.results[strategy.Name()] = result
		s.mu.Unlock()
	}
}

// Healthy reports whether every registered dependency passed its last check
func (s *Service) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, result := range s.results {
		if result.Status == StatusUnhealthy {
			return false
		}
	}
	return true
}

// GetStatus returns the last known state of all dependencies
func (s *Service) GetStatus() []DependencyHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]DependencyHealth, 0, len(s.results))
	for _, result := range s.results {
		statuses = append(statuses, *result)
	}
	return statuses
}
