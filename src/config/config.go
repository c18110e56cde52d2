package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvPathEnvVar      = "POP_TRANSLATE_ENV"
	DefaultShortcutKey = "lshift"
)

type LoadOptions struct {
	// EnvPathOverride points at a .env file used instead of the default lookup.
	EnvPathOverride string
}

type Config struct {
	ShortcutKey       string        `env:"SHORTCUT_KEY" envDefault:"lshift"`
	DoubleTapWindow   time.Duration `env:"DOUBLE_TAP_WINDOW" envDefault:"1000ms"`
	DragThreshold     time.Duration `env:"DRAG_THRESHOLD" envDefault:"500ms"`
	DoubleClickWindow time.Duration `env:"DOUBLE_CLICK_WINDOW" envDefault:"500ms"`
	HidePollInterval  time.Duration `env:"HIDE_POLL_INTERVAL" envDefault:"100ms"`
	CopyTimeout       time.Duration `env:"COPY_TIMEOUT" envDefault:"300ms"`

	// ReleaseTransientPinOnFocus drops the shortcut pin once the panel has been focused.
	// Disabling it keeps the panel from ever auto-hiding after the first shortcut open.
	ReleaseTransientPinOnFocus bool `env:"RELEASE_TRANSIENT_PIN_ON_FOCUS" envDefault:"true"`

	PanelWidth  int `env:"PANEL_WIDTH" envDefault:"360"`
	PanelHeight int `env:"PANEL_HEIGHT" envDefault:"240"`

	EnableFileLogging bool   `env:"ENABLE_FILE_LOGGING"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`

	SingleInstancePort int `env:"SINGLEINSTANCE_PORT" envDefault:"49560"`
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) explicit override path
	// 2) .env in the application (executable) directory
	// 3) POP_TRANSLATE_ENV as a path to a config file
	// Process environment always wins over values read from the file.
	if envPath := resolveEnvPath(opts); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.ShortcutKey = strings.ToLower(strings.TrimSpace(cfg.ShortcutKey))
	if cfg.ShortcutKey == "" {
		cfg.ShortcutKey = DefaultShortcutKey
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"DOUBLE_TAP_WINDOW", c.DoubleTapWindow},
		{"DRAG_THRESHOLD", c.DragThreshold},
		{"DOUBLE_CLICK_WINDOW", c.DoubleClickWindow},
		{"HIDE_POLL_INTERVAL", c.HidePollInterval},
		{"COPY_TIMEOUT", c.CopyTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.d)
		}
	}
	if c.PanelWidth <= 0 || c.PanelHeight <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", c.PanelWidth, c.PanelHeight)
	}
	if c.SingleInstancePort < 1024 || c.SingleInstancePort > 65535 {
		return fmt.Errorf("SINGLEINSTANCE_PORT out of range: %d", c.SingleInstancePort)
	}
	return nil
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.EnvPathOverride); override != "" {
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}
