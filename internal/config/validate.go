package config

import (
	"fmt"
	"net"

	"github.com/leonardotrapani/echoscribe/internal/language"
	"github.com/leonardotrapani/echoscribe/internal/logging"
)

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}

	switch c.Transcription.Provider {
	case "gemini", "openai":
	case "":
		return fmt.Errorf("invalid transcription.provider: empty")
	default:
		return fmt.Errorf("unsupported transcription.provider: %s (must be gemini or openai)", c.Transcription.Provider)
	}
	if c.Transcription.Model == "" {
		return fmt.Errorf("invalid transcription.model: empty")
	}
	if c.Transcription.Language != "" && !language.IsValidCode(c.Transcription.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'en', 'es', 'fr')", c.Transcription.Language)
	}
	if c.Transcription.Timeout <= 0 {
		return fmt.Errorf("invalid transcription.timeout: %v", c.Transcription.Timeout)
	}

	if len(c.Clipboard.Backends) == 0 {
		return fmt.Errorf("invalid clipboard.backends: empty (must have at least one backend)")
	}
	validBackends := map[string]bool{"wl-copy": true, "system": true}
	for _, backend := range c.Clipboard.Backends {
		if !validBackends[backend] {
			return fmt.Errorf("invalid clipboard.backends: unknown backend %q (must be wl-copy or system)", backend)
		}
	}
	if c.Clipboard.Timeout <= 0 {
		return fmt.Errorf("invalid clipboard.timeout: %v", c.Clipboard.Timeout)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	if c.Web.Enabled {
		if _, _, err := net.SplitHostPort(c.Web.Addr); err != nil {
			return fmt.Errorf("invalid web.addr: %q: %w", c.Web.Addr, err)
		}
	}

	if !logging.IsValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}
