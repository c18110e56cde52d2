package runtimeinit

import (
	"fmt"

	"go.uber.org/zap"

	"pop-translate/src/clipboard"
	"pop-translate/src/config"
	"pop-translate/src/logutil"
)

type Options struct {
	LoadOptions config.LoadOptions
	// InitClipboard is skipped by launches that only delegate to the resident.
	InitClipboard bool
	// Clipboard overrides clipboard.Init.
	Clipboard func() error
}

// Bootstrap loads the configuration, sets up logging and initializes the
// process-wide clipboard.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logutil.Setup(cfg.EnableFileLogging, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logutil.Named("runtimeinit").Debug("configuration loaded",
		zap.String("shortcut", cfg.ShortcutKey),
		zap.Duration("double_tap_window", cfg.DoubleTapWindow),
		zap.Int("port", cfg.SingleInstancePort))

	if opts.InitClipboard {
		initClipboard := opts.Clipboard
		if initClipboard == nil {
			initClipboard = clipboard.Init
		}
		if err := initClipboard(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	return cfg, nil
}
