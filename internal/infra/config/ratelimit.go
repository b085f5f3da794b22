package config

import "time"

// RateLimitConfig configures the fixed-window limiter guarding privileged
// writes. The window and ceiling default to 60s/3 but are deployment
// policy, not a contract.
type RateLimitConfig struct {
	// Store selects the counter backend: "memory" is process-local,
	// "redis" shares counters across instances.
	Store   string        `mapstructure:"store" validate:"required,oneof=memory redis"`
	Window  time.Duration `mapstructure:"window" validate:"required"`
	Ceiling int           `mapstructure:"ceiling" validate:"required,gte=1"`
	Redis   RedisConfig   `mapstructure:"redis" validate:"required_if=Store redis"`
}

// RedisConfig describes the shared counter store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
