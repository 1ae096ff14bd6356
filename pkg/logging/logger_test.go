package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel}, // Default
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestJSONLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should have been filtered")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info message should have been filtered")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should have been logged")
	}
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("outer iteration done",
		Model("dcppm"),
		Iteration(3),
		LogLikelihood(-1234.5),
		Communities(7),
	)

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry.Message != "outer iteration done" {
		t.Errorf("Message = %q, want %q", entry.Message, "outer iteration done")
	}
	if entry.Fields["model"] != "dcppm" {
		t.Errorf("model field = %v, want dcppm", entry.Fields["model"])
	}
	if entry.Fields["communities"] != float64(7) {
		t.Errorf("communities field = %v, want 7", entry.Fields["communities"])
	}
}

func TestJSONLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Model("ilfr"), RunID("run-1"))
	child.Info("pass complete", Moves(12))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry.Fields["model"] != "ilfr" {
		t.Errorf("model field = %v, want ilfr", entry.Fields["model"])
	}
	if entry.Fields["run_id"] != "run-1" {
		t.Errorf("run_id field = %v, want run-1", entry.Fields["run_id"])
	}
	if entry.Fields["moves"] != float64(12) {
		t.Errorf("moves field = %v, want 12", entry.Fields["moves"])
	}
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error field = %+v, want {error boom}", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) value = %v, want nil", f.Value)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	logger.With(Model("ppm")).Error("also ignored")
}
