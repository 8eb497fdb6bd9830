// Package config handles the XDG configuration directory, file paths and the
// optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"todo/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings file inside Dir.
	ConfigFile = "config.yaml"

	// DataDirName is the directory under Dir holding persisted slots.
	DataDirName = "data"

	// EnvPrefix prefixes environment overrides (TODO_STORAGE_BACKEND, ...).
	EnvPrefix = "TODO"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings come from config.yaml and the environment.
	Settings Settings
}

// Settings are the values read from config.yaml.
type Settings struct {
	Storage StorageSettings `mapstructure:"storage"`
	Log     LogSettings     `mapstructure:"log"`
	Export  ExportSettings  `mapstructure:"export"`

	// Color enables ANSI colors in list output.
	Color bool `mapstructure:"color"`
}

// StorageSettings selects the persistence backend.
type StorageSettings struct {
	// Backend is "file" or "sqlite".
	Backend string `mapstructure:"backend"`
}

// LogSettings configures the optional rotating log file.
type LogSettings struct {
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// ExportSettings configures export defaults.
type ExportSettings struct {
	// Format is "json" or "yaml".
	Format string `mapstructure:"format"`
}

// DefaultSettings returns the settings used when no config.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{Backend: storage.BackendFile},
		Export:  ExportSettings{Format: "json"},
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load creates a Config like New and merges config.yaml and TODO_*
// environment variables over the defaults. A missing config.yaml is not an
// error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := DefaultSettings()
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("export.format", defaults.Export.Format)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 0)
	v.SetDefault("color", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		v.SetConfigFile(cfg.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if err := v.Unmarshal(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	switch cfg.Settings.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid storage backend: %s", cfg.Settings.Storage.Backend)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataDir returns the directory the storage backend writes to.
func (c *Config) DataDir() string {
	return filepath.Join(c.Dir, DataDirName)
}

// LogFile returns the configured log file, resolved against Dir when
// relative. Empty means no file logging.
func (c *Config) LogFile() string {
	f := c.Settings.Log.File
	if f == "" || filepath.IsAbs(f) {
		return f
	}
	return filepath.Join(c.Dir, f)
}
