// Package config loads server configuration from a YAML file (with
// environment-variable overrides), via github.com/spf13/viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration tree for cmd/server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	AI       AIConfig
}

// ServerConfig configures the WebSocket transport and session limits.
type ServerConfig struct {
	WebSocketAddress string        `mapstructure:"websocket_address"`
	MaxSessions      int           `mapstructure:"max_sessions"`
	LeasePeriod      time.Duration `mapstructure:"lease_period"`
}

// DatabaseConfig configures the pgx-backed persistence layer.
type DatabaseConfig struct {
	DSN            string `mapstructure:"dsn"`
	MaxConnections int32  `mapstructure:"max_connections"`
}

// LoggingConfig configures the zap logger built by cmd/server.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AIConfig configures the default search budget handed to AI agents.
type AIConfig struct {
	MoveBudget     time.Duration `mapstructure:"move_budget"`
	SearchDepth    int           `mapstructure:"search_depth"`
	MonteCarloIter int           `mapstructure:"monte_carlo_iterations"`
}

// Load reads configuration from path (a YAML file), falling back to
// built-in defaults for anything it omits, and applying CARDSIM_*
// environment variable overrides (e.g. CARDSIM_DATABASE_DSN).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.websocket_address", ":8080")
	v.SetDefault("server.max_sessions", 1000)
	v.SetDefault("server.lease_period", 5*time.Minute)
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("ai.move_budget", 2*time.Second)
	v.SetDefault("ai.search_depth", 4)
	v.SetDefault("ai.monte_carlo_iterations", 2000)

	v.SetEnvPrefix("cardsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
