// Package clipboard copies transcripts to the desktop clipboard on a best
// effort basis.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ErrEmptyText   = errors.New("nothing to copy")
	ErrUnavailable = errors.New("no clipboard backend available")
)

// Backend is one way of reaching the clipboard.
type Backend interface {
	Name() string
	Available() error
	Copy(ctx context.Context, text string) error
}

type Config struct {
	Backends []string      // tried in order: "wl-copy", "system"
	Timeout  time.Duration // per backend
}

func DefaultConfig() Config {
	return Config{
		Backends: []string{"wl-copy", "system"},
		Timeout:  3 * time.Second,
	}
}

// Copier tries each configured backend until one succeeds.
type Copier struct {
	config   Config
	backends []Backend
}

func New(config Config) *Copier {
	var backends []Backend
	for _, name := range config.Backends {
		switch name {
		case "wl-copy":
			backends = append(backends, WlCopy{})
		case "system":
			backends = append(backends, System{})
		default:
			log.Warn("Clipboard: unknown backend, skipping", "backend", name)
		}
	}
	return NewWithBackends(config, backends...)
}

func NewWithBackends(config Config, backends ...Backend) *Copier {
	return &Copier{config: config, backends: backends}
}

func (c *Copier) Copy(ctx context.Context, text string) error {
	if text == "" {
		return ErrEmptyText
	}

	var errs []error
	for _, backend := range c.backends {
		if err := backend.Available(); err != nil {
			log.Debug("Clipboard: backend unavailable", "backend", backend.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}

		err := c.copyWith(ctx, backend, text)
		if err == nil {
			log.Printf("Clipboard: copied %d chars via %s", len(text), backend.Name())
			return nil
		}
		log.Printf("Clipboard: %s failed: %v", backend.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

func (c *Copier) copyWith(ctx context.Context, backend Backend, text string) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}
	return backend.Copy(ctx, text)
}
