package config

import "time"

func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			SampleRate: 16000,
			Channels:   1,
			Format:     "s16",
			BufferSize: 8192,
			Device:     "",
			Timeout:    5 * time.Minute,
		},
		Transcription: TranscriptionConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Language: "",
			Timeout:  2 * time.Minute,
		},
		Clipboard: ClipboardConfig{
			AutoCopy: false,
			Backends: []string{"wl-copy", "system"},
			Timeout:  3 * time.Second,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Web: WebConfig{
			Enabled: false,
			Addr:    "127.0.0.1:7645",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

const defaultConfigContent = `# EchoScribe Configuration
# This file is automatically generated with defaults.
# Edit values as needed - changes are applied immediately without daemon restart.
# The API key is read from the environment (GEMINI_API_KEY or OPENAI_API_KEY)
# or from a .env file next to this one.

# Audio Recording Configuration
[recording]
  sample_rate = 16000          # Audio sample rate in Hz (16000 recommended for speech)
  channels = 1                 # Number of audio channels (1 = mono, 2 = stereo)
  format = "s16"               # Audio format (s16 = 16-bit signed integers)
  buffer_size = 8192           # Internal buffer size in bytes
  device = ""                  # PipeWire audio device (empty = use default microphone)
  timeout = "5m"               # Maximum recording duration (e.g., "30s", "2m", "5m")

# Transcription Configuration
[transcription]
  provider = "gemini"          # Transcription service ("gemini" or "openai")
  model = "gemini-2.5-flash"   # Model name ("gemini-2.5-flash", "whisper-1", ...)
  language = ""                # Transcript language (empty for auto-detect, "en", "it", "es", ...)
  base_url = ""                # Override the API endpoint (empty = provider default)
  timeout = "2m"               # Maximum time to wait for a transcript

# Clipboard Configuration
[clipboard]
  auto_copy = false            # Copy every successful transcript automatically
  backends = ["wl-copy", "system"] # Tried in order until one succeeds
  timeout = "3s"               # Timeout for clipboard operations

# Desktop Notification Configuration
[notifications]
  enabled = true               # Enable notifications
  type = "desktop"             # Notification type ("desktop", "log", "none")

# Local HTTP API and event stream
[web]
  enabled = false              # Serve the HTTP API from the daemon
  addr = "127.0.0.1:7645"      # Listen address

# Logging
[log]
  level = "info"               # "debug", "info", "warn", "error"
  report_caller = false        # Include file:line in log lines
`
