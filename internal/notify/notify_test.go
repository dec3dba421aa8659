package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer
	log.SetDefault(log.New(&buf))
	return &buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want Notifier
	}{
		{"desktop", Desktop{}},
		{"log", Log{}},
		{"none", Nop{}},
		{"", Nop{}},
		{"bogus", Nop{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := New(tt.kind); got != tt.want {
				t.Errorf("New(%q) = %T, want %T", tt.kind, got, tt.want)
			}
		})
	}
}

func TestDesktopNotifier(t *testing.T) {
	// Without notify-send on PATH every call must fail quietly.
	t.Setenv("PATH", "")
	buf := captureLog(t)
	desktop := Desktop{}

	desktop.RecordingStarted()
	desktop.RecordingEnded()
	desktop.Transcribing()
	desktop.Transcribed("hello")
	desktop.Aborted()
	desktop.Error("test error message")
	desktop.Notify("Test Title", "Test Message")

	if !strings.Contains(buf.String(), "Failed to send notification") {
		t.Errorf("missing notify-send failure should be logged, got: %s", buf.String())
	}
}

func TestLogNotifier(t *testing.T) {
	buf := captureLog(t)
	logNotifier := Log{}

	tests := []struct {
		name     string
		call     func()
		expected []string
	}{
		{"RecordingStarted", logNotifier.RecordingStarted, []string{"EchoScribe", "Recording Started"}},
		{"RecordingEnded", logNotifier.RecordingEnded, []string{"Recording Ended"}},
		{"Transcribing", logNotifier.Transcribing, []string{"Transcribing"}},
		{"Transcribed", func() { logNotifier.Transcribed("[00:01] Speaker 1: hi") }, []string{"Transcript ready", "Speaker 1: hi"}},
		{"Aborted", logNotifier.Aborted, []string{"Aborted"}},
		{"Error", func() { logNotifier.Error("quota exceeded") }, []string{"EchoScribe Error", "quota exceeded"}},
		{"Notify", func() { logNotifier.Notify("Test Title", "Test Message") }, []string{"Test Title", "Test Message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.call()

			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("log output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestNopNotifier(t *testing.T) {
	buf := captureLog(t)
	nop := Nop{}

	nop.RecordingStarted()
	nop.RecordingEnded()
	nop.Transcribing()
	nop.Transcribed("x")
	nop.Aborted()
	nop.Error("test message")
	nop.Notify("title", "message")

	if buf.Len() != 0 {
		t.Errorf("Nop should not log, got: %s", buf.String())
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 10); got != "short" {
		t.Errorf("Preview() = %q", got)
	}
	if got := Preview("ünïcödé text", 5); got != "ünïcö…" {
		t.Errorf("Preview() should cut on runes, got %q", got)
	}
}
