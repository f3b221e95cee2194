// Package config handles TOML-based configuration loading and validation.
// TOML is parsed as data only; nothing in the file is ever executed.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "streambox"

// Config holds all application configuration.
type Config struct {
	BaseURL      string `toml:"base_url"`
	ItemsPerPage int    `toml:"items_per_page"`
	HistoryLimit int    `toml:"history_limit"`
	Email        string `toml:"email"`
	Password     string `toml:"password"`
	Player       string `toml:"player"`
	DataDir      string `toml:"data_dir"`
	LogFile      string `toml:"log_file"`
	Debug        bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:      "https://streambox-api.onrender.com",
		ItemsPerPage: 20,
		HistoryLimit: 100,
		Player:       "mpv",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the config file. The file may hold the
// account password, so it is only readable by the owner.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.BaseURL == "" {
		return fmt.Errorf("base URL %q is not a valid URL", c.BaseURL)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("base URL %q must be an https URL with a host", c.BaseURL)
	}

	if c.ItemsPerPage < 1 || c.ItemsPerPage > 100 {
		return fmt.Errorf("items_per_page %d out of range (1-100)", c.ItemsPerPage)
	}

	if c.HistoryLimit < 1 || c.HistoryLimit > 1000 {
		return fmt.Errorf("history_limit %d out of range (1-1000)", c.HistoryLimit)
	}

	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	return nil
}

// APIBase returns the base URL without a trailing slash.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// HasCredentials reports whether both email and password are configured.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// ResolveDataDir returns the private data directory holding tokens,
// favorites and history. An explicit data_dir wins; ~ is expanded.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		return defaultDataDir()
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}
