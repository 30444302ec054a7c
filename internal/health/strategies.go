package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lifecoach/internal/database"
	"lifecoach/internal/services"
)

// DatabaseCheck probes the SQLite store
type DatabaseCheck struct {
	DB *database.DB
}

func (c *DatabaseCheck) Name() string { return "database" }

func (c *DatabaseCheck) Check(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RedisCheck probes the Redis connection
type RedisCheck struct {
	Redis *services.RedisService
}

func (c *RedisCheck) Name() string { return "redis" }

func (c *RedisCheck) Check(ctx context.Context) error {
	return c.Redis.Ping(ctx)
}

// NERCheck probes the external NER inference endpoint
type NERCheck struct {
	BaseURL string
	Client  *http.Client
}

// NewNERCheck creates a health check for the NER service
func NewNERCheck(baseURL string) *NERCheck {
	return &NERCheck{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *NERCheck) Name() string { return "ner" }

func (c *NERCheck) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ner service returned %d", resp.StatusCode)
	}
	return nil
}
