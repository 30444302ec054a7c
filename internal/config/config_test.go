package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.AdvanceNoticeLead != 15*time.Minute {
		t.Errorf("Expected 15m advance notice lead, got %v", cfg.AdvanceNoticeLead)
	}
	if cfg.LongHorizon != 24*time.Hour {
		t.Errorf("Expected 24h long horizon, got %v", cfg.LongHorizon)
	}
	if cfg.InboundChannel != "communications:inbound" {
		t.Errorf("Expected default inbound channel, got %s", cfg.InboundChannel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_TRAVEL_TIME", "45m")
	t.Setenv("RETENTION_DAYS", "7")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.DefaultTravelTime != 45*time.Minute {
		t.Errorf("Expected 45m travel time, got %v", cfg.DefaultTravelTime)
	}
	if cfg.RetentionDays != 7 {
		t.Errorf("Expected 7 retention days, got %d", cfg.RetentionDays)
	}
}

func TestLoadAcceptsZeroDurations(t *testing.T) {
	t.Setenv("ADVANCE_NOTICE_LEAD", "0s")
	t.Setenv("DEFAULT_TRAVEL_TIME", "0m")

	cfg := Load()

	if cfg.AdvanceNoticeLead != 0 {
		t.Errorf("Expected explicit zero advance notice lead, got %v", cfg.AdvanceNoticeLead)
	}
	if cfg.DefaultTravelTime != 0 {
		t.Errorf("Expected explicit zero travel time, got %v", cfg.DefaultTravelTime)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "not-a-duration")
	t.Setenv("RETENTION_DAYS", "not-a-number")
	t.Setenv("NER_TIMEOUT", "-5s")

	cfg := Load()

	if cfg.DispatchInterval != 30*time.Second {
		t.Errorf("Expected default dispatch interval, got %v", cfg.DispatchInterval)
	}
	if cfg.RetentionDays != 30 {
		t.Errorf("Expected default retention days, got %d", cfg.RetentionDays)
	}
	if cfg.NERTimeout != 10*time.Second {
		t.Errorf("Expected negative duration to fall back to default, got %v", cfg.NERTimeout)
	}
}
