package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Mediator MediatorConfig `mapstructure:"mediator"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/orders-api")
	}

	v.SetEnvPrefix("ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only maps env vars for keys it knows about, so every key gets
	// a registered default before Unmarshal.
	registerKeys(v)

	// Config file is optional; env vars and defaults cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL works without the ORDERS_ prefix so hosted platforms
	// can inject it directly
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"database.type", "database.url", "database.host", "database.user",
		"database.password", "database.name", "database.sslmode", "database.path",
		"server.address",
	} {
		v.SetDefault(key, "")
	}
	for _, key := range []string{
		"database.port", "database.pool.max_open", "database.pool.max_idle",
		"server.rate_limit.burst",
	} {
		v.SetDefault(key, 0)
	}
	for _, key := range []string{
		"database.pool.max_lifetime", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "mediator.statistics.retention_window",
		"mediator.statistics.cleanup_interval",
	} {
		v.SetDefault(key, time.Duration(0))
	}
	for _, key := range []string{
		"mediator.logging.send", "mediator.logging.publish", "mediator.logging.stream",
		"mediator.logging.performance", "mediator.statistics.enabled",
		"mediator.statistics.detailed_tracking",
	} {
		v.SetDefault(key, false)
	}
	v.SetDefault("server.rate_limit.requests", 0.0)
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
