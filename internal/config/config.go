package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // SQLite file for reminder persistence
	RedisURL     string

	// Extraction
	NERServiceURL string // external NER inference endpoint; empty = rule-based only
	NERTimeout    time.Duration
	RulesPath     string // YAML with indicator phrases and location lead hints

	// Derivation thresholds. All overridable, none is load-bearing beyond tuning.
	AdvanceNoticeLead  time.Duration // reminder lead when no location is known
	DefaultTravelTime  time.Duration // travel fallback when location known but unmeasured
	DefaultPrepTime    time.Duration // preparation fallback
	LongHorizon        time.Duration // beyond this, emit an extra advance reminder
	HighPriorityWindow time.Duration // fire times this close to the event are high priority

	// Messaging channels
	InboundChannel string // queue consumer input
	EventsChannel  string // notification sink output

	// Background jobs
	DispatchInterval time.Duration // due-reminder scan cadence
	DigestCron       string        // daily digest schedule (standard 5-field cron)
	RetentionDays    int           // acknowledged reminders older than this are purged
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8000"),
		DatabasePath: getEnv("DATABASE_PATH", "lifecoach.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),

		NERServiceURL: getEnv("NER_SERVICE_URL", ""),
		NERTimeout:    getDurationEnv("NER_TIMEOUT", 10*time.Second),
		RulesPath:     getEnv("EXTRACTION_RULES_PATH", "rules.yaml"),

		AdvanceNoticeLead:  getDurationEnv("ADVANCE_NOTICE_LEAD", 15*time.Minute),
		DefaultTravelTime:  getDurationEnv("DEFAULT_TRAVEL_TIME", 15*time.Minute),
		DefaultPrepTime:    getDurationEnv("DEFAULT_PREP_TIME", 0),
		LongHorizon:        getDurationEnv("LONG_HORIZON", 24*time.Hour),
		HighPriorityWindow: getDurationEnv("HIGH_PRIORITY_WINDOW", 30*time.Minute),

		InboundChannel: getEnv("INBOUND_CHANNEL", "communications:inbound"),
		EventsChannel:  getEnv("EVENTS_CHANNEL", "reminders:events"),

		DispatchInterval: getDurationEnv("DISPATCH_INTERVAL", 30*time.Second),
		DigestCron:       getEnv("DIGEST_CRON", "0 7 * * *"),
		RetentionDays:    getIntEnv("RETENTION_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
