package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyManifestURL    = "manifest_url"
	KeyFaviconService = "favicon_service"
	KeyUploadURL      = "upload_url"
	KeyHTTPTimeout    = "http_timeout"
	KeyStorage        = "storage"
	KeyLogLevel       = "log_level"
	KeyDebounce       = "debounce"
	KeyUpdateCheck    = "update_check"
	KeyUpdateInterval = "update_interval"
	KeyReleaseAPI     = "release_api"
)

// Keys returns every known config key in display order.
func Keys() []string {
	return []string{
		KeyManifestURL,
		KeyFaviconService,
		KeyUploadURL,
		KeyHTTPTimeout,
		KeyStorage,
		KeyLogLevel,
		KeyDebounce,
		KeyUpdateCheck,
		KeyUpdateInterval,
		KeyReleaseAPI,
	}
}

// Storage backends accepted by the storage key.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultDebounce    = 150 * time.Millisecond

	defaultUpdateInterval = 24 * time.Hour
	defaultReleaseAPI     = "https://api.github.com"
)

// Dir returns the path to the data directory (~/.kittengames/).
// The KITTENGAMES_HOME environment variable overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// DataDir returns the directory persisted records live in (~/.kittengames/data/).
// The KITTENGAMES_DATA environment variable overrides it.
func DataDir() string {
	if v := os.Getenv(branding.EnvVar("DATA")); v != "" {
		return v
	}
	return filepath.Join(Dir(), "data")
}

// FilePath returns the full path to the config file (~/.kittengames/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyManifestURL, branding.ManifestURL())
	viper.SetDefault(KeyFaviconService, branding.FaviconService())
	viper.SetDefault(KeyUploadURL, branding.UploadURL())
	viper.SetDefault(KeyHTTPTimeout, defaultHTTPTimeout.String())
	viper.SetDefault(KeyStorage, StorageFile)
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyDebounce, defaultDebounce.String())
	viper.SetDefault(KeyUpdateCheck, "true")
	viper.SetDefault(KeyUpdateInterval, defaultUpdateInterval.String())
	viper.SetDefault(KeyReleaseAPI, defaultReleaseAPI)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// ManifestURL returns the game manifest location.
func ManifestURL() string { return viper.GetString(KeyManifestURL) }

// FaviconService returns the favicon lookup endpoint.
func FaviconService() string { return viper.GetString(KeyFaviconService) }

// UploadURL returns the remote upload endpoint used by theme authoring.
func UploadURL() string { return viper.GetString(KeyUploadURL) }

// StorageBackend returns the configured storage backend name.
func StorageBackend() string { return viper.GetString(KeyStorage) }

// LogLevel returns the configured zerolog level name.
func LogLevel() string { return viper.GetString(KeyLogLevel) }

// HTTPTimeout returns the timeout applied to every outbound request.
// Unparseable or non-positive values fall back to 10s.
func HTTPTimeout() time.Duration {
	return durationOr(KeyHTTPTimeout, defaultHTTPTimeout)
}

// Debounce returns how long the browser waits after a keystroke before
// recomputing the filtered catalog.
func Debounce() time.Duration {
	d := viper.GetDuration(KeyDebounce)
	if d < 0 {
		return defaultDebounce
	}
	return d
}

// UpdateCheck reports whether commands may check for new releases.
func UpdateCheck() bool { return viper.GetBool(KeyUpdateCheck) }

// UpdateInterval returns how long a release lookup is trusted before the
// next command refreshes it. Non-positive values fall back to 24h.
func UpdateInterval() time.Duration {
	return durationOr(KeyUpdateInterval, defaultUpdateInterval)
}

// ReleaseAPI returns the GitHub API base used for release lookups.
func ReleaseAPI() string { return viper.GetString(KeyReleaseAPI) }

func durationOr(key string, fallback time.Duration) time.Duration {
	d := viper.GetDuration(key)
	if d <= 0 {
		return fallback
	}
	return d
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if err := validate(key, value); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func validate(key, value string) error {
	switch key {
	case KeyHTTPTimeout, KeyDebounce, KeyUpdateInterval:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a duration (e.g. 10s): %w", key, err)
		}
	case KeyUpdateCheck:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
	case KeyStorage:
		if value != StorageFile && value != StorageSQLite {
			return fmt.Errorf("%s must be %q or %q", key, StorageFile, StorageSQLite)
		}
	}
	return nil
}
