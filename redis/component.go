package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/habit/component"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/resilience"
	"github.com/kbukum/habit/util"
)

// Component wraps Client and implements component.Component for lifecycle management.
type Component struct {
	client *Client
	store  *CredentialStore
	cfg    Config
	log    *logger.Logger
}

// ensure Component satisfies component.Component
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a Redis component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client {
	return c.client
}

// Store returns the credential store, or nil if not started.
func (c *Component) Store() *CredentialStore {
	return c.store
}

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start initializes the Redis client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}

	retry := resilience.RetryConfig{
		MaxAttempts: c.cfg.ConnectAttempts,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			c.log.Warn("Redis ping failed, retrying", logger.Fields(
				"attempt", attempt, "error", err.Error(), "backoff", wait.String()))
		},
	}
	if err := resilience.Do(ctx, retry, client.Ping); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.client = client
	c.store = NewCredentialStore(client)
	c.log.Info("Redis component started", logger.Fields("addr", c.cfg.Addr, "auth", c.auth()))
	return nil
}

// Stop gracefully closes the Redis connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	c.log.Info("Redis component stopping")
	return c.client.Close()
}

// Health returns the current health status of the Redis connection.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not initialized",
		}
	}

	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d prefix=%s auth=%s",
			c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, c.cfg.KeyPrefix, c.auth()),
	}
}

func (c *Component) auth() string {
	if c.cfg.Password == "" {
		return "none"
	}
	return util.MaskSecret(c.cfg.Password, 0)
}
