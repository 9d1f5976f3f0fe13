package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines the supported HMAC signing algorithms. The same
// shared secret signs and verifies.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// DefaultTTL is the lifetime of access tokens when none is configured.
const DefaultTTL = 10 * time.Minute

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("jwt: secret is required")

// Config configures the JWT token service.
type Config struct {
	// Secret is the shared HMAC key. Required.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim (optional). When set, parsing requires it.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// TTL is the lifetime of access tokens (default: 10m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

// Validate checks the secret and signing method.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrMissingSecret
	}
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	if c.TTL < 0 {
		return errors.New("jwt: ttl must be positive")
	}
	return nil
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) key() []byte {
	return []byte(c.Secret)
}
