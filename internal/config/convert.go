package config

import (
	"github.com/leonardotrapani/echoscribe/internal/clipboard"
	"github.com/leonardotrapani/echoscribe/internal/logging"
	"github.com/leonardotrapani/echoscribe/internal/recording"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

func (c *Config) ToRecordingConfig() recording.Config {
	config := recording.DefaultConfig()
	config.SampleRate = c.Recording.SampleRate
	config.Channels = c.Recording.Channels
	config.Format = c.Recording.Format
	config.BufferSize = c.Recording.BufferSize
	config.Device = c.Recording.Device
	config.MaxDuration = c.Recording.Timeout
	return config
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider: c.Transcription.Provider,
		APIKey:   c.Transcription.APIKey,
		Model:    c.Transcription.Model,
		Language: c.Transcription.Language,
		BaseURL:  c.Transcription.BaseURL,
		Timeout:  c.Transcription.Timeout,
	}
}

func (c *Config) ToClipboardConfig() clipboard.Config {
	return clipboard.Config{
		Backends: c.Clipboard.Backends,
		Timeout:  c.Clipboard.Timeout,
	}
}

func (c *Config) ToLoggingConfig() logging.Config {
	config := logging.DefaultConfig()
	if c.Log.Level != "" {
		config.Level = c.Log.Level
	}
	config.ReportCaller = c.Log.ReportCaller
	return config
}
