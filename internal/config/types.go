package config

import "time"

type Config struct {
	Recording     RecordingConfig     `toml:"recording"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Clipboard     ClipboardConfig     `toml:"clipboard"`
	Notifications NotificationsConfig `toml:"notifications"`
	Web           WebConfig           `toml:"web"`
	Log           LogConfig           `toml:"log"`
}

type RecordingConfig struct {
	SampleRate int           `toml:"sample_rate"`
	Channels   int           `toml:"channels"`
	Format     string        `toml:"format"`
	BufferSize int           `toml:"buffer_size"`
	Device     string        `toml:"device"`
	Timeout    time.Duration `toml:"timeout"` // maximum capture length
}

type TranscriptionConfig struct {
	Provider string        `toml:"provider"`
	Model    string        `toml:"model"`
	Language string        `toml:"language"`
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`

	// APIKey is resolved from the environment, never from the file.
	APIKey string `toml:"-"`
}

type ClipboardConfig struct {
	AutoCopy bool          `toml:"auto_copy"` // copy every successful transcript
	Backends []string      `toml:"backends"`  // "wl-copy", "system"
	Timeout  time.Duration `toml:"timeout"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

type LogConfig struct {
	Level        string `toml:"level"`
	ReportCaller bool   `toml:"report_caller"`
}
