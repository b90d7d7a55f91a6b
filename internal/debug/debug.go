// Package debug provides development logging for the Aurora client.
//
// Logging is off until Enable is called; every helper is a no-op before
// that, so components can log freely without checking.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	enabled bool
	logFile *os.File
	logger  *zap.Logger
	mu      sync.Mutex
	logPath string
)

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from the data directory.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)

	logFile = f
	logger = zap.New(core)
	logPath = path
	enabled = true

	logger.Info("=== Aurora Debug Session Started ===",
		zap.String("time", time.Now().Format(time.RFC3339)),
		zap.String("log_file", path),
		zap.Int("pid", os.Getpid()))

	return nil
}

// Disable turns off debug logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}

	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	enabled = false
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// LogPath returns the path to the log file.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Logger returns the underlying logger, or a no-op logger when disabled.
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !enabled || logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	Logger().Debug(fmt.Sprintf(format, args...))
}

// Event logs an event with component context.
func Event(component, eventType string, details string) {
	Logger().Info(eventType,
		zap.String("component", component),
		zap.String("details", details))
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Logger().Error(context,
		zap.String("component", component),
		zap.Error(err))
}

// Auth logs an authentication lifecycle event. Tokens are never logged.
func Auth(event string, details string) {
	Event("auth", event, details)
}
