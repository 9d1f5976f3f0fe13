package app

import (
	"fmt"
	"slices"

	"github.com/kbukum/habit/auth"
	"github.com/kbukum/habit/config"
	"github.com/kbukum/habit/database"
	"github.com/kbukum/habit/observability"
	"github.com/kbukum/habit/redis"
	"github.com/kbukum/habit/server"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Drivers lists the accepted storage.driver values.
var Drivers = []string{DriverMemory, DriverSQLite, DriverRedis}

// StorageConfig selects the credential store.
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
}

// Config is the full habit configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Storage       StorageConfig        `yaml:"storage" mapstructure:"storage"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "habit"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Store sections are only checked for the
// selected driver.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if !slices.Contains(Drivers, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be one of %v (got: %s)", Drivers, c.Storage.Driver)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	case DriverRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return c.Observability.Validate()
}
