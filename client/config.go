package client

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the connection settings for a single MCP endpoint. It is
// immutable after construction; build a new Config to talk to a different
// endpoint.
type Config struct {
	URL        string        `json:"url" yaml:"url" validate:"required,url"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
	MaxRetries int           `json:"maxRetries" yaml:"maxRetries" validate:"gte=0"`
	BaseDelay  time.Duration `json:"baseDelay" yaml:"baseDelay" validate:"gt=0"`
	MaxDelay   time.Duration `json:"maxDelay" yaml:"maxDelay" validate:"gtefield=BaseDelay"`
}

// DefaultConfig returns a Config for the given endpoint URL with the default
// timeout and backoff envelope.
func DefaultConfig(URL string) Config {
	return Config{
		URL:        URL,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   60 * time.Second,
	}
}

// Validate checks the config invariants.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
