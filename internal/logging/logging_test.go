package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected zapcore.Level
	}{
		{name: "debug", input: "debug", expected: zapcore.DebugLevel},
		{name: "info", input: "info", expected: zapcore.InfoLevel},
		{name: "warn", input: "warn", expected: zapcore.WarnLevel},
		{name: "error", input: "error", expected: zapcore.ErrorLevel},
		{name: "unknown falls back to info", input: "verbose", expected: zapcore.InfoLevel},
		{name: "empty falls back to info", input: "", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuner.log")

	log, flush, err := New("debug", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Named("test").Infow("hello", "key", "value")
	log.Debugw("a debug line")
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "hello") {
		t.Errorf("log file missing info line: %q", content)
	}
	if !strings.Contains(content, "a debug line") {
		t.Errorf("log file missing debug line: %q", content)
	}
	if !strings.Contains(content, "test") {
		t.Errorf("log file missing component name: %q", content)
	}
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuner.log")

	log, flush, err := New("warn", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Infow("should be filtered")
	log.Warnw("should appear")
	flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "should be filtered") {
		t.Errorf("info line not filtered at warn level: %q", content)
	}
	if !strings.Contains(content, "should appear") {
		t.Errorf("warn line missing: %q", content)
	}
}
