package config

import "time"

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Listen address, e.g. ":8080"
	Address string `mapstructure:"address" validate:"required"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Rate limit applied to write commands (requests per second + burst)
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds token-bucket rate limiter configuration
type RateLimitConfig struct {
	Requests float64 `mapstructure:"requests" validate:"min=0"`
	Burst    int     `mapstructure:"burst" validate:"min=0"`
}
