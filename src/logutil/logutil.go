package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName = "pop_translate_debug.log"
	maxSizeMB   = 10
	maxArchives = 3
)

// Setup installs the global zap logger. With file logging enabled, JSON lines go to a
// size-rotated file (10MB, max 3 archives) next to the working directory; otherwise a
// console encoder writes to stderr.
func Setup(enableFileLogging bool, level string) error {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	var core zapcore.Core
	if enableFileLogging {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		w := &lumberjack.Logger{
			Filename:   filepath.Join(".", logFileName),
			MaxSize:    maxSizeMB,
			MaxBackups: maxArchives,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), lvl)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl)
	}

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(logger)
	return nil
}

// Named returns the global logger tagged with a component field.
// Loggers obtained before Setup keep writing to the previous global (no-op by default).
func Named(component string) *zap.Logger {
	return zap.L().With(zap.String("component", component))
}

// Sync flushes buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}

// Truncate shortens s for log output.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
