package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm represents the supported deterministic hash primitives.
type Algorithm string

const (
	// AlgorithmSHA256 hashes plaintext+salt with SHA-256.
	AlgorithmSHA256 Algorithm = "sha256"

	// AlgorithmHMACSHA256 hashes plaintext+salt with HMAC-SHA-256 under Key.
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmArgon2id derives the secret with argon2id.
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config configures password hashing behavior.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Algorithm selects the hash primitive (default: "sha256").
	Algorithm Algorithm `mapstructure:"algorithm"`

	// Key is the server-side key for hmac-sha256.
	Key string `mapstructure:"key"`

	// SaltCost is the cost field written into generated salts (default: 12, range: 4-31).
	SaltCost int `mapstructure:"salt_cost"`

	// Argon2Time is the number of iterations for argon2id (default: 1).
	Argon2Time uint32 `mapstructure:"argon2_time"`

	// Argon2Memory is the memory usage in KiB for argon2id (default: 65536 = 64MB).
	Argon2Memory uint32 `mapstructure:"argon2_memory"`

	// Argon2Threads is the parallelism for argon2id (default: 4).
	Argon2Threads uint8 `mapstructure:"argon2_threads"`

	// MinLength is the minimum password length (default: 8).
	MinLength int `mapstructure:"min_length"`

	// MaxLength is the maximum password length (default: 128).
	MaxLength int `mapstructure:"max_length"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmSHA256
	}
	if c.SaltCost == 0 {
		c.SaltCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
	if c.MinLength == 0 {
		c.MinLength = 8
	}
	if c.MaxLength == 0 {
		c.MaxLength = 128
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmSHA256, AlgorithmArgon2id:
	case AlgorithmHMACSHA256:
		if c.Key == "" {
			return fmt.Errorf("key is required for %s", c.Algorithm)
		}
	default:
		return fmt.Errorf("unsupported algorithm: %s (use sha256, hmac-sha256 or argon2id)", c.Algorithm)
	}
	if c.SaltCost < bcrypt.MinCost || c.SaltCost > bcrypt.MaxCost {
		return fmt.Errorf("salt_cost must be between %d and %d (got: %d)", bcrypt.MinCost, bcrypt.MaxCost, c.SaltCost)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("min_length must be >= 1 (got: %d)", c.MinLength)
	}
	if c.MaxLength < c.MinLength {
		return fmt.Errorf("max_length (%d) must be >= min_length (%d)", c.MaxLength, c.MinLength)
	}
	return nil
}

// NewHasher creates a Hasher from configuration. Call Validate first; an
// hmac-sha256 config without a key returns an error.
func NewHasher(cfg Config) (Hasher, error) {
	cfg.ApplyDefaults()
	switch cfg.Algorithm {
	case AlgorithmArgon2id:
		return NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
		), nil
	case AlgorithmHMACSHA256:
		return NewHMACHasher(cfg.Key)
	default:
		return NewSHA256Hasher(), nil
	}
}

// NewSalter creates the salt generator for cfg.
func NewSalter(cfg Config) Salter {
	cfg.ApplyDefaults()
	return NewBcryptSalter(cfg.SaltCost)
}
