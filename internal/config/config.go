package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lotas/salonreviews/internal/emphasis"
	"github.com/lotas/salonreviews/internal/indicator"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Log       LogConfig
	Indicator IndicatorConfig
	Live      LiveConfig
	UI        UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds the event log location.
type LogConfig struct {
	Dir string
}

// IndicatorConfig tunes the selection pill.
type IndicatorConfig struct {
	Pad            int
	EmphasisWindow time.Duration `mapstructure:"emphasis_window"`
}

// LiveConfig holds the front desk feed settings.
type LiveConfig struct {
	Enabled bool
	Port    int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Select string // stylist selected at startup, by id or name
}

// DefaultPort is the live feed port when none is configured.
const DefaultPort = 19192

// Load reads configuration from file and env. Env var overrides use prefix
// SALONREVIEWS_, with "." in keys replaced by "_".
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "salonreviews", "salonreviews.db"))
	v.SetDefault("log.dir", filepath.Join(home, ".local", "share", "salonreviews"))
	v.SetDefault("indicator.pad", indicator.DefaultPad)
	v.SetDefault("indicator.emphasis_window", emphasis.DefaultDuration)
	v.SetDefault("live.enabled", false)
	v.SetDefault("live.port", DefaultPort)
	v.SetDefault("ui.select", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SALONREVIEWS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "salonreviews"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SALONREVIEWS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Database.Path == "":
		return errors.New("database.path is empty")
	case c.Indicator.Pad < 0:
		return fmt.Errorf("indicator.pad must be >= 0, got %d", c.Indicator.Pad)
	case c.Indicator.EmphasisWindow <= 0:
		return fmt.Errorf("indicator.emphasis_window must be positive, got %s", c.Indicator.EmphasisWindow)
	case c.Live.Port < 1 || c.Live.Port > 65535:
		return fmt.Errorf("live.port must be in 1-65535, got %d", c.Live.Port)
	}
	return nil
}
