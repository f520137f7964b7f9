package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("KOCLI_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("KOCLI_TOKEN"),
		TokenFile: getEnvOrDefault("KOCLI_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// tokenPath is where the token file lives relative to an XDG config directory
var tokenPath = filepath.Join("knockout", "token")

// LoadToken loads the token from file if not already set. When the token file
// is the default and missing, the XDG system config directories are searched
// too, so a shared host can provision one token for every user.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	path := c.TokenFile
	if path == defaultTokenFile() {
		if found, err := xdg.SearchConfigFile(tokenPath); err == nil {
			path = found
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Read-only commands need no token
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func defaultTokenFile() string {
	return filepath.Join(xdg.ConfigHome, tokenPath)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
