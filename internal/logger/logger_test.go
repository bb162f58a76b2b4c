package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(Config{LogDir: logDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	if current.Load() == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("timer started", "goal", "write docs")
	Warn("music file not found", "path", "x.mp3")

	data, err := os.ReadFile(filepath.Join(logDir, FileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "music file not found") {
		t.Errorf("log file missing warning, got %q", data)
	}
	if !strings.Contains(string(data), "breakr") {
		t.Errorf("log file missing prefix, got %q", data)
	}
}

func TestDebugGoesToConsole(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Config{Debug: true, LogDir: t.TempDir(), Console: &console}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Debug("tick", "remaining", 10)

	if !strings.Contains(console.String(), "tick") {
		t.Errorf("console output = %q, want debug entry", console.String())
	}
}

func TestInfoHidesDebug(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Config{LogDir: t.TempDir(), Console: &console}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Close() })

	Debug("hidden")
	if strings.Contains(console.String(), "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	_ = Close()

	// These should not panic without a logger
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestCloseDropsLogger(t *testing.T) {
	if err := Init(Config{LogDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if current.Load() != nil {
		t.Fatal("Logger still set after Close")
	}

	// Logging after Close is a no-op.
	Info("ignored")
}
