package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{" warn ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitWriter(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	var buf bytes.Buffer
	InitWriter(&buf, Config{Level: "info"})

	log.Debug("hidden message")
	log.Info("visible message", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("debug message should be filtered at info level, got: %s", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "key=value") {
		t.Errorf("info message missing from output: %s", out)
	}

	buf.Reset()
	SetLevel("debug")
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug message should be logged after SetLevel, got: %s", buf.String())
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "Info", "warn", "error"} {
		if !IsValidLevel(level) {
			t.Errorf("%q should be valid", level)
		}
	}
	if IsValidLevel("loud") {
		t.Error("unknown level should be invalid")
	}
}
