package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/knockout/internal/services/elimination"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultSettings(), cfg.Settings)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KNOCKOUT_PORT", "9000")
	t.Setenv("KNOCKOUT_STORAGE", "redis")
	t.Setenv("KNOCKOUT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KNOCKOUT_LOG_LEVEL", "debug")
	t.Setenv("KNOCKOUT_LIVES", "3")
	t.Setenv("KNOCKOUT_MULTI", "extra:4")
	t.Setenv("KNOCKOUT_FALSE_STARTS", "2")
	t.Setenv("KNOCKOUT_FALSE_START_WINDOW", "1500ms")
	t.Setenv("KNOCKOUT_TIEBREAKER", "false")
	t.Setenv("KNOCKOUT_ADMINS", "alice, bob,,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StorageTypeRedis, cfg.StorageType)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3, cfg.Settings.DefaultLives)
	assert.Equal(t, elimination.ModeExtra, cfg.Settings.EliminationMode)
	assert.Equal(t, 4, cfg.Settings.EliminationValue)
	assert.Equal(t, 2, cfg.Settings.MaxFalseStarts)
	assert.Equal(t, 1500*time.Millisecond, cfg.Settings.FalseStartWindow)
	assert.False(t, cfg.Settings.Tiebreaker)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Settings.Admins)
	assert.True(t, cfg.Settings.IsAdmin("bob"))
	assert.False(t, cfg.Settings.IsAdmin("carol"))
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"KNOCKOUT_PORT":       "eighty",
		"KNOCKOUT_LIVES":      "0",
		"KNOCKOUT_MULTI":      "constant",
		"KNOCKOUT_TIEBREAKER": "perhaps",
		"KNOCKOUT_LOG_LEVEL":  "chatty",
		"KNOCKOUT_STORAGE":    "postgres",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestRedisNeedsURL(t *testing.T) {
	t.Setenv("KNOCKOUT_STORAGE", "redis")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "KNOCKOUT_REDIS_URL")
}

func TestParseMulti(t *testing.T) {
	mode, value, err := ParseMulti("dynamic 12")
	require.NoError(t, err)
	assert.Equal(t, elimination.ModeDynamic, mode)
	assert.Equal(t, 12, value)

	mode, _, err = ParseMulti("none")
	require.NoError(t, err)
	assert.Equal(t, elimination.ModeNone, mode)

	_, _, err = ParseMulti("constant:0")
	assert.ErrorIs(t, err, elimination.ErrInvalidValue)
}
