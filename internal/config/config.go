package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Export   ExportConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Account string // default account slug for export
}

// Load reads configuration from file and env. Env var overrides use prefix
// BUDGETCSV_ (e.g. BUDGETCSV_DATABASE_PATH).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "budgetcsv", "budgetcsv.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("export.account", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BUDGETCSV_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "budgetcsv"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BUDGETCSV")
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
