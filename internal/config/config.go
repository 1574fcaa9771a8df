package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the ClickHouse connection settings.
// All values come from environment variables; credentials are never read
// from files.
type Config struct {
	Host     string `env:"CLICKHOUSE_HOST" env-default:"localhost"`
	Port     int    `env:"CLICKHOUSE_PORT" env-default:"8123"`
	Username string `env:"CLICKHOUSE_USERNAME"`
	Password string `env:"CLICKHOUSE_PASSWORD"`
}

// Load reads the connection settings from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}
