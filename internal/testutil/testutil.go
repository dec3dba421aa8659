package testutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/recording"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Transcription.APIKey = "test-api-key"
	cfg.Notifications.Type = "none"
	cfg.Notifications.Enabled = false
	return cfg
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

// CreateTempAudioFile writes data under name in a temp dir and returns the path.
func CreateTempAudioFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create temp audio file: %v", err)
	}
	return path
}

// MockWAV returns a short valid WAV clip.
func MockWAV() []byte {
	pcm := make([]byte, 320)
	for i := range pcm {
		pcm[i] = byte(i % 256)
	}
	return audio.WAV(pcm, 16000, 1)
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within %v", timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// CaptureOutput captures stdout for testing
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	out, _ := io.ReadAll(r)
	return string(out)
}

// MockCapturer stands in for the microphone recorder. Stop delivers Capture
// (or a default WAV clip) to the completion callback.
type MockCapturer struct {
	StartError error
	Capture    recording.Capture

	mu         sync.Mutex
	recording  bool
	elapsed    int
	starts     int
	onComplete func(recording.Capture)
}

func NewMockCapturer() *MockCapturer {
	return &MockCapturer{}
}

func (m *MockCapturer) SetOnComplete(fn func(recording.Capture)) {
	m.mu.Lock()
	m.onComplete = fn
	m.mu.Unlock()
}

func (m *MockCapturer) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StartError != nil {
		return m.StartError
	}
	if m.recording {
		return recording.ErrAlreadyRecording
	}
	m.recording = true
	m.elapsed = 0
	m.starts++
	return nil
}

func (m *MockCapturer) Stop() {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return
	}
	m.recording = false

	capture := m.Capture
	if capture.Data == nil {
		capture.Data = MockWAV()
	}
	if capture.MimeType == "" {
		capture.MimeType = audio.RecordingMimeType
	}
	if capture.StartedAt.IsZero() {
		capture.StartedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	capture.Elapsed = m.elapsed
	fn := m.onComplete
	m.mu.Unlock()

	if fn != nil {
		fn(capture)
	}
}

// Tick advances the elapsed counter as the real ticker would.
func (m *MockCapturer) Tick(n int) {
	m.mu.Lock()
	m.elapsed += n
	m.mu.Unlock()
}

func (m *MockCapturer) Elapsed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed
}

func (m *MockCapturer) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

func (m *MockCapturer) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// TranscribeCall records one request seen by MockTranscriber.
type TranscribeCall struct {
	Audio    string
	MimeType string
}

// MockTranscriber returns Result for every request. When Block is set the call
// waits until it is closed or the context ends.
type MockTranscriber struct {
	Result transcriber.Result
	Block  chan struct{}

	mu    sync.Mutex
	calls []TranscribeCall
}

func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{Result: transcriber.Success(text)}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, encodedAudio, contentType string) transcriber.Result {
	m.mu.Lock()
	m.calls = append(m.calls, TranscribeCall{Audio: encodedAudio, MimeType: contentType})
	block := m.Block
	result := m.Result
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return transcriber.Failure(ctx.Err())
		}
	}
	return result
}

func (m *MockTranscriber) Calls() []TranscribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]TranscribeCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// MockCopier records copied text instead of touching the clipboard.
type MockCopier struct {
	CopyError error

	mu     sync.Mutex
	copied []string
}

func NewMockCopier() *MockCopier {
	return &MockCopier{}
}

func (m *MockCopier) Copy(ctx context.Context, text string) error {
	if m.CopyError != nil {
		return m.CopyError
	}
	m.mu.Lock()
	m.copied = append(m.copied, text)
	m.mu.Unlock()
	return nil
}

func (m *MockCopier) Copied() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.copied))
	copy(result, m.copied)
	return result
}

// MockNotifier records notification events by name.
type MockNotifier struct {
	mu     sync.Mutex
	events []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) record(event string) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
}

func (m *MockNotifier) RecordingStarted()            { m.record("recording_started") }
func (m *MockNotifier) RecordingEnded()              { m.record("recording_ended") }
func (m *MockNotifier) Transcribing()                { m.record("transcribing") }
func (m *MockNotifier) Transcribed(preview string)   { m.record("transcribed:" + preview) }
func (m *MockNotifier) Aborted()                     { m.record("aborted") }
func (m *MockNotifier) Error(msg string)             { m.record("error:" + msg) }
func (m *MockNotifier) Notify(title, message string) { m.record("notify:" + title) }

func (m *MockNotifier) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.events))
	copy(result, m.events)
	return result
}
