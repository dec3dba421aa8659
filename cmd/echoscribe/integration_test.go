//go:build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

const testTimeout = 45 * time.Second

// TestProviders sends a generated tone to every provider with a credential in
// the environment. A tone has no speech, so only transport and auth are
// checked, not the text.
func TestProviders(t *testing.T) {
	config.LoadEnv()
	payload, _, err := loadProbeAudio(os.Getenv("ECHOSCRIBE_TEST_AUDIO"))
	if err != nil {
		t.Fatalf("failed to load test audio: %v", err)
	}

	for _, provider := range transcriber.Providers() {
		t.Run(provider, func(t *testing.T) {
			key, err := config.LoadCredential(provider)
			if err != nil {
				t.Skipf("no credential: %v", err)
			}

			cfg := transcriber.DefaultConfig()
			cfg.Provider = provider
			cfg.Model = transcriber.DefaultModel(provider)
			cfg.APIKey = key
			cfg.Timeout = testTimeout

			client, err := transcriber.New(cfg)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			result := client.Transcribe(ctx, payload.Data, payload.MimeType)
			if !result.OK() {
				t.Fatalf("transcription failed: %v", result.Err)
			}
			t.Logf("%s: %q", provider, truncateString(result.Text, 120))
		})
	}
}
