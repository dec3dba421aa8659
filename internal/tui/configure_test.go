package tui

import (
	"strings"
	"testing"

	"github.com/leonardotrapani/echoscribe/internal/config"
)

func TestConfigureValues_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transcription.Language = "it"
	cfg.Clipboard.AutoCopy = true

	values := valuesFrom(cfg)
	if values.provider != "gemini" || values.language != "it" || !values.autoCopy || values.notifyType != "desktop" {
		t.Fatalf("unexpected values %+v", values)
	}

	out := config.DefaultConfig()
	values.apply(out)
	if out.Transcription != cfg.Transcription || out.Clipboard.AutoCopy != cfg.Clipboard.AutoCopy {
		t.Errorf("apply should reproduce the config, got %+v", out.Transcription)
	}
}

func TestConfigureValues_Apply(t *testing.T) {
	t.Run("empty model takes provider default", func(t *testing.T) {
		cfg := config.DefaultConfig()
		values := valuesFrom(cfg)
		values.provider = "openai"
		values.model = "  "
		values.apply(cfg)

		if cfg.Transcription.Model != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", cfg.Transcription.Model)
		}
	})

	t.Run("none disables notifications", func(t *testing.T) {
		cfg := config.DefaultConfig()
		values := valuesFrom(cfg)
		values.notifyType = "none"
		values.apply(cfg)

		if cfg.Notifications.Enabled {
			t.Error("notifications should be disabled")
		}
		if got := valuesFrom(cfg).notifyType; got != "none" {
			t.Errorf("disabled notifications should read back as none, got %q", got)
		}
	})

	t.Run("applied config validates", func(t *testing.T) {
		cfg := config.DefaultConfig()
		values := valuesFrom(cfg)
		values.webEnabled = true
		values.webAddr = " 127.0.0.1:9000 "
		values.apply(cfg)

		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if cfg.Web.Addr != "127.0.0.1:9000" {
			t.Errorf("addr = %q", cfg.Web.Addr)
		}
	})
}

func TestOptions(t *testing.T) {
	providers := providerOptions()
	if len(providers) != 2 || providers[0].Value != "gemini" || providers[1].Value != "openai" {
		t.Errorf("unexpected provider options %+v", providers)
	}

	languages := languageOptions()
	if len(languages) < 2 || languages[0].Value != "" {
		t.Fatalf("auto-detect should come first, got %+v", languages[0])
	}
	for _, opt := range languages[1:] {
		if opt.Value == "" {
			t.Errorf("only the first option may be auto-detect, got %+v", opt)
		}
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "***"},
		{"AIzaSyA-1234567890abcd", "AIzaSyA...abcd"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestValidateAddr(t *testing.T) {
	if err := validateAddr("127.0.0.1:7645"); err != nil {
		t.Errorf("valid addr rejected: %v", err)
	}
	if err := validateAddr("localhost"); err == nil {
		t.Error("addr without port accepted")
	}
}

func TestSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Web.Enabled = true

	got := Summary(cfg)
	for _, want := range []string{"gemini (gemini-2.5-flash)", "Auto-detect", "wl-copy -> system", "http://127.0.0.1:7645"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
