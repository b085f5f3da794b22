package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	customvalidator "github.com/adpulse/gateway/pkg/validator"
)

// Config is the root gateway configuration.
type Config struct {
	Server         ServerConfig    `mapstructure:"server"`
	Auth           AuthConfig      `mapstructure:"auth" validate:"required"`
	Database       DatabaseConfig  `mapstructure:"database" validate:"required"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	AWS            AWSConfig       `mapstructure:"aws"`
	ServiceVersion string
	BuildCommit    string
}

// Load reads the configuration from the given path (or the default search
// locations), overlays environment variables, and validates the result.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vip.SetDefault("server.port", 8084)
	vip.SetDefault("server.mode", "development")
	vip.SetDefault("server.cors.allowed_origins", []string{"*"})
	vip.SetDefault("auth.mode", "remote")
	vip.SetDefault("auth.provider.timeout", 5*time.Second)
	vip.SetDefault("auth.jwt.token_ttl", time.Hour)
	vip.SetDefault("rate_limit.store", "memory")
	vip.SetDefault("rate_limit.window", time.Minute)
	vip.SetDefault("rate_limit.ceiling", 3)

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := customvalidator.RegisterCustomValidators(validate); err != nil {
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ServiceVersion = getenv("GATEWAY_SERVICE_VERSION", "unknown")
	cfg.BuildCommit = getenv("GATEWAY_BUILD_COMMIT", "unknown")

	return &cfg, nil
}

// getenv returns an environment variable or a default value.
func getenv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
