// Package config resolves the client settings: built-in defaults, then an
// optional config.toml in the config dir, then environment variables
// (a .env file in the working directory is read first when present).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const appName = "authdemo"

type Config struct {
	BaseURL           string        `toml:"base_url"`
	RequestTimeout    time.Duration `toml:"-"`
	CacheDir          string        `toml:"-"`
	DBPath            string        `toml:"db_path"`
	LogPath           string        `toml:"log_path"`
	TokenKey          string        `toml:"token_key"`
	RestoreSession    bool          `toml:"restore_session"`
	MinPasswordLength int           `toml:"min_password_length"`
	// ExpiryCheck is how often the stored token's exp claim is checked
	// while the UI runs. Zero disables the check.
	ExpiryCheck time.Duration `toml:"-"`
	// LoginInterval spaces repeated login attempts. Zero disables it.
	LoginInterval time.Duration `toml:"-"`
}

// fileConfig mirrors Config for decoding; durations are written in
// seconds in the file.
type fileConfig struct {
	Config
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	ExpiryCheckSecs    int `toml:"expiry_check_secs"`
	LoginIntervalMs    int `toml:"login_interval_ms"`
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), appName)
	return Config{
		BaseURL:           "http://localhost:5000/api/auth",
		RequestTimeout:    10 * time.Second,
		CacheDir:          cacheDir,
		DBPath:            filepath.Join(cacheDir, "session.db"),
		LogPath:           filepath.Join(cacheDir, "debug.log"),
		TokenKey:          "access_token",
		RestoreSession:    false,
		MinPasswordLength: 4,
		ExpiryCheck:       time.Minute,
		LoginInterval:     time.Second,
	}
}

// Path returns the location of the optional TOML file.
func (c Config) Path() string {
	return filepath.Join(c.CacheDir, "config.toml")
}

// Load builds the effective configuration.
func Load() (Config, error) {
	cfg := Default()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	if err := cfg.loadFile(cfg.Path()); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFile overlays path onto c. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	fc := fileConfig{
		Config:             *c,
		RequestTimeoutSecs: int(c.RequestTimeout / time.Second),
		ExpiryCheckSecs:    int(c.ExpiryCheck / time.Second),
		LoginIntervalMs:    int(c.LoginInterval / time.Millisecond),
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	*c = fc.Config
	c.RequestTimeout = time.Duration(fc.RequestTimeoutSecs) * time.Second
	c.ExpiryCheck = time.Duration(fc.ExpiryCheckSecs) * time.Second
	c.LoginInterval = time.Duration(fc.LoginIntervalMs) * time.Millisecond
	return nil
}

// ApplyEnvOverrides applies AUTHDEMO_* variables:
//   - AUTHDEMO_BASE_URL
//   - AUTHDEMO_TIMEOUT (Go duration, e.g. 5s)
//   - AUTHDEMO_DB_PATH
//   - AUTHDEMO_RESTORE (1/true/0/false)
//   - AUTHDEMO_EXPIRY_CHECK (Go duration, 0 disables)
//   - AUTHDEMO_LOGIN_INTERVAL (Go duration, 0 disables)
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("AUTHDEMO_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("AUTHDEMO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AUTHDEMO_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("AUTHDEMO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("AUTHDEMO_RESTORE"); v != "" {
		b, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("AUTHDEMO_RESTORE: %w", err)
		}
		c.RestoreSession = b
	}
	if v := os.Getenv("AUTHDEMO_EXPIRY_CHECK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AUTHDEMO_EXPIRY_CHECK: %w", err)
		}
		c.ExpiryCheck = d
	}
	if v := os.Getenv("AUTHDEMO_LOGIN_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AUTHDEMO_LOGIN_INTERVAL: %w", err)
		}
		c.LoginInterval = d
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.TokenKey == "" {
		return fmt.Errorf("token_key must not be empty")
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be >= 1")
	}
	if c.LoginInterval < 0 {
		return fmt.Errorf("login interval must not be negative")
	}
	if c.ExpiryCheck < 0 {
		return fmt.Errorf("expiry check interval must not be negative")
	}
	return nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
