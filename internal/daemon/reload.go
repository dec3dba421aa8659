package daemon

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/clipboard"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/logging"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

// swapTranscriber lets a reload replace the transcription client without
// rebuilding the controller. A request already in flight keeps the old one.
type swapTranscriber struct {
	mu      sync.RWMutex
	current pipeline.Transcriber
}

func (s *swapTranscriber) Transcribe(ctx context.Context, encodedAudio, contentType string) transcriber.Result {
	s.mu.RLock()
	t := s.current
	s.mu.RUnlock()
	return t.Transcribe(ctx, encodedAudio, contentType)
}

func (s *swapTranscriber) set(t pipeline.Transcriber) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
}

// applyConfig takes over a reloaded configuration. Recording and web settings
// need a restart.
func (d *Daemon) applyConfig(cfg *config.Config) {
	d.mu.Lock()
	old := d.config
	d.config = cfg
	if !d.fixedNotifier {
		d.notifier = notifierFor(cfg)
	}
	if !d.fixedCopier {
		d.copier = clipboard.New(cfg.ToClipboardConfig())
	}
	d.mu.Unlock()

	logging.SetLevel(cfg.Log.Level)

	if old.Recording != cfg.Recording {
		log.Printf("Daemon: recording settings changed, restart to apply")
	}
	if old.Web != cfg.Web {
		log.Printf("Daemon: web settings changed, restart to apply")
	}

	if d.fixedTranscriber || old.Transcription == cfg.Transcription {
		return
	}

	if old.Transcription.Provider != cfg.Transcription.Provider {
		key, err := config.LoadCredential(cfg.Transcription.Provider)
		if err != nil {
			log.Error("Daemon: keeping previous transcriber", "err", err)
			return
		}
		cfg.Transcription.APIKey = key
		if d.manager != nil {
			d.manager.SetAPIKey(key)
		}
	}

	client, err := transcriber.New(cfg.ToTranscriberConfig())
	if err != nil {
		log.Error("Daemon: keeping previous transcriber", "err", err)
		return
	}
	d.transcriber.set(client)
	log.Info("Daemon: transcriber updated", "provider", cfg.Transcription.Provider, "model", cfg.Transcription.Model)
}
