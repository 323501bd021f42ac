package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Storage   StorageConfig
	Export    ExportConfig
	Templates TemplatesConfig
	UI        UIConfig
	Log       LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StorageConfig holds the key namespace used inside the database.
type StorageConfig struct {
	Prefix string
}

// ExportConfig holds the directory PDFs are written to.
type ExportConfig struct {
	Dir string
}

// TemplatesConfig points at an optional directory of user YAML templates.
type TemplatesConfig struct {
	Dir string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme    string
	Timezone string
}

// LogConfig holds the log file and level.
type LogConfig struct {
	Path  string
	Level string
}

const envPrefix = "PACKAGEBUILDER"

func home() string { return os.Getenv("HOME") }

func defaultConfigPath() string {
	return filepath.Join(home(), ".config", "packagebuilder", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix PACKAGEBUILDER_.
func Load() (Config, error) {
	v := viper.New()

	share := filepath.Join(home(), ".local", "share", "packagebuilder")
	v.SetDefault("database.path", filepath.Join(share, "packagebuilder.db"))
	v.SetDefault("storage.prefix", "usmc-spb-")
	v.SetDefault("export.dir", filepath.Join(home(), "Documents", "packages"))
	v.SetDefault("templates.dir", filepath.Join(home(), ".config", "packagebuilder", "templates"))
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("log.path", filepath.Join(share, "packagebuilder.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv(envPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Dir(defaultConfigPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The config init command uses it to write a starter file.
func Save(cfg Config) error {
	path := os.Getenv(envPrefix + "_CONFIG")
	if path == "" {
		path = defaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("storage.prefix", cfg.Storage.Prefix)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("templates.dir", cfg.Templates.Dir)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Location resolves UI.Timezone, with "" and "Local" meaning time.Local.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.UI.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone %q: %w", tz, err)
	}
	return loc, nil
}
