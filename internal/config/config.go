// Package config layers flags, WBS_* environment variables, an optional
// YAML file and defaults into one Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendHTTP     Backend = "http"
)

// Keys, shared by flags, environment and the config file.
const (
	KeyBackend        = "backend"
	KeyDB             = "db"
	KeyPostgresDSN    = "postgres-dsn"
	KeyAPIURL         = "api-url"
	KeyAPITimeout     = "api-timeout"
	KeyListen         = "listen"
	KeyDayWidth       = "day-width"
	KeyOverscan       = "overscan"
	KeyScrollThrottle = "scroll-throttle"
	KeyLogFile        = "log-file"
	KeyLogLevel       = "log-level"
)

const EnvPrefix = "WBS"

type Config struct {
	Backend     Backend
	DBPath      string
	PostgresDSN string
	APIURL      string
	APITimeout  time.Duration
	Listen      string

	// Dashboard
	DayWidth       int
	Overscan       int
	ScrollThrottle time.Duration

	LogFile  string
	LogLevel slog.Level
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	dir := Dir()
	v.SetDefault(KeyBackend, string(BackendSQLite))
	v.SetDefault(KeyDB, filepath.Join(dir, "wbs.db"))
	v.SetDefault(KeyPostgresDSN, "")
	v.SetDefault(KeyAPIURL, "http://localhost:8080")
	v.SetDefault(KeyAPITimeout, 10*time.Second)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyDayWidth, 3)
	v.SetDefault(KeyOverscan, 14)
	v.SetDefault(KeyScrollThrottle, 100*time.Millisecond)
	v.SetDefault(KeyLogFile, filepath.Join(dir, "wbs.log"))
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// Dir is the per-user directory holding the database, log and config file.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wbs"
	}
	return filepath.Join(home, ".wbs")
}

// BindFlags registers the persistent flags on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String(KeyBackend, string(BackendSQLite), "persistence backend: sqlite, postgres or http")
	fs.String(KeyDB, "", "SQLite database path")
	fs.String(KeyPostgresDSN, "", "Postgres connection string")
	fs.String(KeyAPIURL, "", "rows service URL for the http backend")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn or error")
	for _, key := range []string{KeyBackend, KeyDB, KeyPostgresDSN, KeyAPIURL, KeyLogLevel} {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

// ReadFile reads path, or config.yaml from Dir when path is empty. A
// missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load resolves and validates the configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Backend:        Backend(strings.ToLower(v.GetString(KeyBackend))),
		DBPath:         v.GetString(KeyDB),
		PostgresDSN:    v.GetString(KeyPostgresDSN),
		APIURL:         strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		APITimeout:     v.GetDuration(KeyAPITimeout),
		Listen:         v.GetString(KeyListen),
		DayWidth:       v.GetInt(KeyDayWidth),
		Overscan:       v.GetInt(KeyOverscan),
		ScrollThrottle: v.GetDuration(KeyScrollThrottle),
		LogFile:        v.GetString(KeyLogFile),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(Dir(), "wbs.db")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", KeyLogLevel, err)
	}

	switch cfg.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("backend postgres requires %s", KeyPostgresDSN)
		}
	case BackendHTTP:
		if cfg.APIURL == "" {
			return Config{}, fmt.Errorf("backend http requires %s", KeyAPIURL)
		}
	default:
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if cfg.DayWidth < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyDayWidth, cfg.DayWidth)
	}
	if cfg.Overscan < 0 {
		return Config{}, fmt.Errorf("%s must not be negative", KeyOverscan)
	}
	return cfg, nil
}
