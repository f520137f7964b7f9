package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config holds daemon configuration
type Config struct {
	Host string
	Port int

	StorageType string
	RedisURL    string

	// Relay forwarding queries to the dedicated server
	RelayURL   string
	RelayToken string

	// bcrypt hash of the token the host plugin presents on callbacks, empty disables auth
	BridgeTokenHash string

	LogLevel slog.Level

	Settings Settings
}

// FromEnv builds a Config from environment variables
func FromEnv() (Config, error) {
	cfg := Config{
		Host:            getEnvOrDefault("KNOCKOUT_HOST", "0.0.0.0"),
		StorageType:     getEnvOrDefault("KNOCKOUT_STORAGE", StorageTypeMemory),
		RedisURL:        os.Getenv("KNOCKOUT_REDIS_URL"),
		RelayURL:        getEnvOrDefault("KNOCKOUT_RELAY_URL", "http://localhost:5005"),
		RelayToken:      os.Getenv("KNOCKOUT_RELAY_TOKEN"),
		BridgeTokenHash: os.Getenv("KNOCKOUT_BRIDGE_TOKEN_HASH"),
	}

	var err error
	if cfg.Port, err = envInt("KNOCKOUT_PORT", 8080); err != nil {
		return cfg, err
	}
	if cfg.LogLevel, err = ParseLogLevel(getEnvOrDefault("KNOCKOUT_LOG_LEVEL", "info")); err != nil {
		return cfg, err
	}
	if cfg.Settings, err = SettingsFromEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks option combinations
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("KNOCKOUT_REDIS_URL required when storage is %s", StorageTypeRedis)
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseLogLevel accepts debug, info, warn or error
func ParseLogLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", v)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
