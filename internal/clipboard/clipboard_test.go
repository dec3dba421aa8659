package clipboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeBackend struct {
	name      string
	available error
	copyErr   error
	block     bool
	copied    []string
}

func (f *fakeBackend) Name() string     { return f.name }
func (f *fakeBackend) Available() error { return f.available }

func (f *fakeBackend) Copy(ctx context.Context, text string) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.copyErr != nil {
		return f.copyErr
	}
	f.copied = append(f.copied, text)
	return nil
}

func TestNew(t *testing.T) {
	copier := New(Config{Backends: []string{"wl-copy", "bogus", "system"}})
	if len(copier.backends) != 2 {
		t.Fatalf("expected 2 backends, got %d", len(copier.backends))
	}
	if copier.backends[0].Name() != "wl-copy" || copier.backends[1].Name() != "system" {
		t.Errorf("unexpected backend order: %s, %s", copier.backends[0].Name(), copier.backends[1].Name())
	}
}

func TestCopier_Copy(t *testing.T) {
	t.Run("first backend wins", func(t *testing.T) {
		first := &fakeBackend{name: "first"}
		second := &fakeBackend{name: "second"}
		copier := NewWithBackends(DefaultConfig(), first, second)

		if err := copier.Copy(context.Background(), "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first.copied) != 1 || len(second.copied) != 0 {
			t.Errorf("expected only first backend used, got %v / %v", first.copied, second.copied)
		}
	})

	t.Run("falls back on unavailable and failing backends", func(t *testing.T) {
		missing := &fakeBackend{name: "missing", available: errors.New("not installed")}
		broken := &fakeBackend{name: "broken", copyErr: errors.New("exit status 1")}
		working := &fakeBackend{name: "working"}
		copier := NewWithBackends(DefaultConfig(), missing, broken, working)

		if err := copier.Copy(context.Background(), "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(working.copied) != 1 || working.copied[0] != "hello" {
			t.Errorf("expected fallback backend to receive text, got %v", working.copied)
		}
	})

	t.Run("all backends fail", func(t *testing.T) {
		copier := NewWithBackends(DefaultConfig(),
			&fakeBackend{name: "a", available: errors.New("missing")},
			&fakeBackend{name: "b", copyErr: errors.New("boom")})

		err := copier.Copy(context.Background(), "hello")
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("no backends", func(t *testing.T) {
		err := NewWithBackends(DefaultConfig()).Copy(context.Background(), "hello")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		backend := &fakeBackend{name: "a"}
		err := NewWithBackends(DefaultConfig(), backend).Copy(context.Background(), "")
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("expected ErrEmptyText, got %v", err)
		}
		if len(backend.copied) != 0 {
			t.Error("backend should not be called for empty text")
		}
	})

	t.Run("timeout moves to next backend", func(t *testing.T) {
		slow := &fakeBackend{name: "slow", block: true}
		fast := &fakeBackend{name: "fast"}
		copier := NewWithBackends(Config{Timeout: 20 * time.Millisecond}, slow, fast)

		if err := copier.Copy(context.Background(), "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fast.copied) != 1 {
			t.Error("expected fast backend to be used after timeout")
		}
	})
}

func TestWlCopy_Available(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	if err := (WlCopy{}).Available(); err == nil {
		t.Error("wl-copy should be unavailable outside Wayland")
	}
}
