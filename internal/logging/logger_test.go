package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("setup failed")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("fixture", "Server(8080)"), "fixture", "Server(8080)"},
		{"Int", Int("items", 3), "items", 3},
		{"Float64", Float64("ratio", 0.5), "ratio", 0.5},
		{"Bool", Bool("success", true), "success", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(testErr), "error", testErr},
		{"Err nil", Err(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "coordinator")

	logger.Info("setups scheduled")
	output := buf.String()

	if !strings.Contains(output, "coordinator") {
		t.Errorf("NewLogger should include component field, got: %s", output)
	}
	if !strings.Contains(output, "setups scheduled") {
		t.Errorf("NewLogger should include message, got: %s", output)
	}
}

func TestNewLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLevelLogger(&buf, "coordinator", "warn")

	logger.Info("hidden")
	logger.Debug("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("info/debug should be filtered at warn level, got: %s", buf.String())
	}

	logger.Warn("teardown slow", String("fixture", "DB()"))
	if !strings.Contains(buf.String(), "teardown slow") || !strings.Contains(buf.String(), "DB()") {
		t.Errorf("warn entry missing, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("discarded")
	logger.Error("discarded", errors.New("x"))
}

// TestZerologAdapter_Error tests the Error method.
func TestZerologAdapter_Error(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		err      error
		fields   []Field
		contains []string
	}{
		{
			name:     "with error",
			msg:      "teardown failed",
			err:      errors.New("connection refused"),
			contains: []string{"teardown failed", "connection refused", "error"},
		},
		{
			name:     "with nil error",
			msg:      "warning",
			contains: []string{"warning", "error"},
		},
		{
			name:     "with error and fields",
			msg:      "setup failed",
			err:      errors.New("timeout"),
			fields:   []Field{String("fixture", "Cache(redis)"), Int("items", 3)},
			contains: []string{"setup failed", "timeout", "Cache(redis)", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Error(tt.msg, tt.err, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Debug("awaiting setups", Int("outstanding", 2))

	output := buf.String()
	if !strings.Contains(output, "awaiting setups") || !strings.Contains(output, "debug") {
		t.Errorf("Debug output missing message or level, got: %s", output)
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("scheduled %d jobs", 2)
	logger.Println("hello", "world")

	output := buf.String()
	if !strings.Contains(output, "scheduled 2 jobs") {
		t.Errorf("Printf should format message, got: %s", output)
	}
	if !strings.Contains(output, "hello world") {
		t.Errorf("Println should join arguments, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pi", Value: 3.14}, "3.14"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"strings field", Field{Key: "params", Value: []string{"1.4", "1.3"}}, "1.3"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, buf.String())
			}
		})
	}
}

// TestLoggerInterface verifies the adapter implements the Logger interface.
func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
}
