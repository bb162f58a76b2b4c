package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "breakr.log"

var (
	current atomic.Pointer[log.Logger]
	file    atomic.Pointer[lumberjack.Logger]
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// LogDir receives the rotating log file.
	LogDir string
	// Console, when set, also receives every entry. The interactive timer
	// leaves it nil so log lines never land on the terminal UI.
	Console io.Writer
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, FileName),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	var writer io.Writer = fileWriter
	if cfg.Console != nil {
		writer = io.MultiWriter(cfg.Console, fileWriter)
	}

	l := log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "breakr",
	})

	current.Store(l)
	if old := file.Swap(fileWriter); old != nil {
		_ = old.Close()
	}
	return nil
}

// Close flushes and closes the log file.
func Close() error {
	current.Store(nil)
	if f := file.Swap(nil); f != nil {
		return f.Close()
	}
	return nil
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Error(msg, keyvals...)
	}
}
