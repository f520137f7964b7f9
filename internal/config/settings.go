package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/knockout/internal/services/elimination"
)

// Settings are the knockout rules an administrator can change in game
type Settings struct {
	DefaultLives     int
	EliminationMode  elimination.Mode
	EliminationValue int
	// Restarts allowed per round for players retiring right after the start, 0 disables
	MaxFalseStarts   int
	FalseStartWindow time.Duration
	Tiebreaker       bool
	OpenWarmup       bool
	// Skip the warmup once at most this many players remain and one beats the author time, 0 disables
	AuthorSkip int
	Admins     []string
}

// DefaultSettings returns the built-in knockout rules
func DefaultSettings() Settings {
	return Settings{
		DefaultLives:     1,
		EliminationMode:  elimination.ModeNone,
		MaxFalseStarts:   0,
		FalseStartWindow: time.Second,
		Tiebreaker:       true,
		OpenWarmup:       true,
		AuthorSkip:       0,
	}
}

// SettingsFromEnv reads KNOCKOUT_* variables over the defaults
func SettingsFromEnv() (Settings, error) {
	s := DefaultSettings()
	var err error

	if s.DefaultLives, err = envInt("KNOCKOUT_LIVES", s.DefaultLives); err != nil {
		return s, err
	}
	if s.DefaultLives < 1 {
		return s, fmt.Errorf("KNOCKOUT_LIVES must be at least 1")
	}
	if v := getEnvOrDefault("KNOCKOUT_MULTI", ""); v != "" {
		if s.EliminationMode, s.EliminationValue, err = ParseMulti(v); err != nil {
			return s, fmt.Errorf("KNOCKOUT_MULTI: %w", err)
		}
	}
	if s.MaxFalseStarts, err = envInt("KNOCKOUT_FALSE_STARTS", s.MaxFalseStarts); err != nil {
		return s, err
	}
	if s.FalseStartWindow, err = envDuration("KNOCKOUT_FALSE_START_WINDOW", s.FalseStartWindow); err != nil {
		return s, err
	}
	if s.Tiebreaker, err = envBool("KNOCKOUT_TIEBREAKER", s.Tiebreaker); err != nil {
		return s, err
	}
	if s.OpenWarmup, err = envBool("KNOCKOUT_OPEN_WARMUP", s.OpenWarmup); err != nil {
		return s, err
	}
	if s.AuthorSkip, err = envInt("KNOCKOUT_AUTHOR_SKIP", s.AuthorSkip); err != nil {
		return s, err
	}
	s.Admins = splitList(getEnvOrDefault("KNOCKOUT_ADMINS", ""))

	return s, nil
}

// IsAdmin reports whether login is configured as an administrator
func (s Settings) IsAdmin(login string) bool {
	return slices.Contains(s.Admins, login)
}

// ParseMulti parses an elimination mode such as "none", "constant:2" or "dynamic 10"
func ParseMulti(v string) (elimination.Mode, int, error) {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ':' || r == ' ' })
	if len(parts) == 0 {
		return elimination.ModeNone, 0, fmt.Errorf("empty elimination mode")
	}

	mode, ok := elimination.ParseMode(parts[0])
	if !ok {
		return elimination.ModeNone, 0, fmt.Errorf("unknown elimination mode %q", parts[0])
	}

	value := 0
	if mode.HasValue() {
		if len(parts) != 2 {
			return mode, 0, fmt.Errorf("%s needs a value", mode)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return mode, 0, fmt.Errorf("invalid value %q", parts[1])
		}
		value = n
	}

	if err := elimination.Validate(mode, value); err != nil {
		return mode, value, err
	}
	return mode, value, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
