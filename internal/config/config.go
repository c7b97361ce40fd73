package config

import (
	"strings"

	"github.com/caarlos0/env/v11"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Storage StorageConfig
	Log     LogConfig
	Engine  EngineConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// StorageConfig selects where battlefields are kept
type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Redis      RedisConfig
	SQLitePath string `env:"SQLITE_PATH" envDefault:"battlefields.db"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// EngineConfig tunes terrain generation
type EngineConfig struct {
	MaxRerolls int `env:"ENGINE_MAX_REROLLS" envDefault:"100"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, terrerr.WrapWithCode(err, terrerr.CodeInvalidArgument, "parse env")
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings every command needs
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return terrerr.InvalidArgument("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return terrerr.InvalidArgumentf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Engine.MaxRerolls < 1 {
		return terrerr.InvalidArgument("ENGINE_MAX_REROLLS must be positive")
	}

	return nil
}

// ValidateBot checks the settings only the Discord bot needs
func (c *Config) ValidateBot() error {
	if c.Discord.Token == "" {
		return terrerr.InvalidArgument("DISCORD_TOKEN is required")
	}
	if c.Discord.AppID == "" {
		return terrerr.InvalidArgument("DISCORD_APP_ID is required")
	}
	return nil
}
