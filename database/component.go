package database

import (
	"context"
	"fmt"

	"github.com/kbukum/habit/component"
	"github.com/kbukum/habit/database/migration"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/util"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db    *DB
	store *CredentialStore
	cfg   Config
	log   *logger.Logger
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB { return c.db }

// Store returns the credential store, or nil if not started.
func (c *Component) Store() *CredentialStore { return c.store }

func (c *Component) Name() string { return "database" }

// Start connects to the database and applies pending migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	if c.cfg.ShouldMigrate() {
		if err := migration.Up(db.GormDB); err != nil {
			_ = db.Close()
			return fmt.Errorf("database migrate: %w", err)
		}
		c.log.Info("Database schema is up to date")
	}
	c.db = db
	c.store = NewCredentialStore(db)
	c.log.Info("Database component started", logger.Fields("dsn", util.RedactDSN(c.cfg.DSN)))
	return nil
}

// Stop gracefully closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}
	status := c.db.CheckHealth(ctx)
	if !status.Connected {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %s", status.Error),
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("latency=%s open=%d", status.Latency, status.OpenConns),
	}
}

// Describe returns infrastructure summary info for the startup display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", util.RedactDSN(c.cfg.DSN), c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.ShouldMigrate() {
		details += " migrate=on"
	}
	return component.Description{
		Name:    "SQLite",
		Type:    "database",
		Details: details,
	}
}
