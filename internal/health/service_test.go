package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCheck struct {
	name string
	err  error
}

func (c *fakeCheck) Name() string                  { return c.name }
func (c *fakeCheck) Check(_ context.Context) error { return c.err }

func TestHealthyBeforeFirstRun(t *testing.T) {
	svc := NewService(time.Second)
	svc.Register(&fakeCheck{name: "database"})

	// Unknown is not unhealthy
	if !svc.Healthy() {
		t.Error("Expected service healthy before checks run")
	}

	statuses := svc.GetStatus()
	if len(statuses) != 1 || statuses[0].Status != StatusUnknown {
		t.Errorf("Expected one unknown dependency, got %v", statuses)
	}
}

func TestRunChecks(t *testing.T) {
	svc := NewService(time.Second)
	svc.Register(&fakeCheck{name: "database"})
	svc.Register(&fakeCheck{name: "redis", err: errors.New("connection refused")})

	svc.RunChecks(context.Background())

	if svc.Healthy() {
		t.Error("Expected service unhealthy when a dependency fails")
	}

	byName := make(map[string]DependencyHealth)
	for _, s := range svc.GetStatus() {
		byName[s.Name] = s
	}

	if byName["database"].Status != StatusHealthy {
		t.Errorf("Expected database healthy, got %s", byName["database"].Status)
	}
	if byName["redis"].Status != StatusUnhealthy {
		t.Errorf("Expected redis unhealthy, got %s", byName["redis"].Status)
	}
	if byName["redis"].LastError == "" {
		t.Error("Expected the failure reason to be recorded")
	}
}

func TestRecovery(t *testing.T) {
	check := &fakeCheck{name: "redis", err: errors.New("down")}
	svc := NewService(time.Second)
	svc.Register(check)

	svc.RunChecks(context.Background())
	if svc.Healthy() {
		t.Fatal("Expected unhealthy")
	}

	check.err = nil
	svc.RunChecks(context.Background())
	if !svc.Healthy() {
		t.Error("Expected service to recover after a passing check")
	}
}
