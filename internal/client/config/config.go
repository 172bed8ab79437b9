package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/storage"
)

// Config holds runtime settings for the DentaCare client.
//
// Units: RequestTimeout, NotificationDuration and SessionCheckInterval are
// time.Duration values; a zero SessionCheckInterval disables the periodic
// session check.
type Config struct {
	APIBaseURL           string        `envconfig:"API_BASE_URL"`
	RequestTimeout       time.Duration `envconfig:"REQUEST_TIMEOUT"`
	RetryCount           int           `envconfig:"RETRY_COUNT"`
	StorageBackend       string        `envconfig:"STORAGE_BACKEND"`
	StoragePath          string        `envconfig:"STORAGE_PATH"`
	EncryptionPassphrase string        `envconfig:"ENCRYPTION_PASSPHRASE"`
	Locale               string        `envconfig:"LOCALE"`
	NotificationDuration time.Duration `envconfig:"NOTIFICATION_DURATION"`
	SessionCheckInterval time.Duration `envconfig:"SESSION_CHECK_INTERVAL"`
	LogLevel             string        `envconfig:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.RetryCount = 2
	c.StorageBackend = storage.BackendCookie
	c.StoragePath = ""
	c.EncryptionPassphrase = ""
	c.Locale = "en"
	c.NotificationDuration = 5 * time.Second
	c.SessionCheckInterval = time.Minute
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. It panics on malformed input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	switch c.StorageBackend {
	case storage.BackendCookie, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("retry count must not be negative, got %d", c.RetryCount)
	}
	return nil
}

// StorageLocation returns StoragePath, or a per-user default for the
// selected backend when it is empty.
func (c *Config) StorageLocation() string {
	if c.StoragePath != "" || c.StorageBackend == storage.BackendMemory {
		return c.StoragePath
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "dentacare")

	if c.StorageBackend == storage.BackendSQLite {
		return filepath.Join(dir, "session.db")
	}
	return filepath.Join(dir, "session.cookie")
}
