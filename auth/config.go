package auth

import (
	"fmt"

	"github.com/kbukum/habit/auth/jwt"
	"github.com/kbukum/habit/auth/password"
)

// Config holds all authentication configuration.
// It composes subpackage configs for loading from YAML/env via mapstructure.
type Config struct {
	// JWT configures access token signing. jwt.secret is required.
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`

	// Password configures password hashing and length policy.
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults sets sensible defaults for both sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sub-configurations. A missing signing secret fails
// here so the process never starts without one.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
// Example: "JWT(HS256) TTL=10m0s password=sha256"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.TTL, c.Password.Algorithm)
}
