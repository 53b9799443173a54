// Package config reads daemon configuration from HABITFLASH_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/habitflash/habitflash/common"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the daemon configuration.
type Config struct {
	DataDir         string        `envconfig:"DATA_DIR"`
	Port            int           `envconfig:"PORT" default:"7391"`
	ListenAll       bool          `envconfig:"LISTEN_ALL" default:"false"`
	LogFile         bool          `envconfig:"LOG_FILE" default:"true"`
	Debug           bool          `envconfig:"DEBUG" default:"false"`
	PowerMonitor    string        `envconfig:"POWER_MONITOR" default:"auto"`
	Notifier        string        `envconfig:"NOTIFIER" default:"auto"`
	SoundDirs       []string      `envconfig:"SOUND_DIRS"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load parses the environment and fills derived defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(common.EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid %s: %d", common.PortEnv, c.Port)
	}
	switch c.PowerMonitor {
	case "auto", "logind", "drift", "none":
	default:
		return fmt.Errorf("invalid %s: %q", common.PowerMonitorEnv, c.PowerMonitor)
	}
	switch c.Notifier {
	case "auto", "dbus", "log":
	default:
		return fmt.Errorf("invalid %s: %q", common.NotifierEnv, c.Notifier)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return nil
}

// DefaultDataDir is the habitflash directory under the user config dir.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "habitflash"), nil
}

// Addr is the daemon's listen address.
func (c *Config) Addr() string {
	host := "127.0.0.1"
	if c.ListenAll {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}

// Path joins name onto the data directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}
