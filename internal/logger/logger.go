package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/andreagrandi/jvm-wire/internal/app"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile       *os.File
)

// FilePath returns the application log file path, following the XDG state
// directory convention.
func FilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, app.ConfigDirName, "app.log"), nil
}

// ParseLevel converts a level name into a slog.Level. Unknown or empty
// names return info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init configures the package logger. Records always go to the log file
// when it can be opened; stderr is added outside the TUI so the full-screen
// view is not corrupted.
func Init(isTUI bool, level string) {
	var writers []io.Writer

	path, err := FilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: log file disabled: %v\n", err)
	} else if f, err := openLogFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: log file disabled: %v\n", err)
	} else {
		writers = append(writers, f)
	}

	if !isTUI {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = os.Stderr
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	SetLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory %q: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}

	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	mu.Unlock()

	return f, nil
}

// SetLogger replaces the package logger. Tests use it to capture records.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Close releases the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil
	return err
}

func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
