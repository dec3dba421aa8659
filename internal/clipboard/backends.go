package clipboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// WlCopy writes through wl-copy on Wayland sessions.
type WlCopy struct{}

func (WlCopy) Name() string { return "wl-copy" }

func (WlCopy) Available() error {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("not a Wayland session")
	}
	if _, err := exec.LookPath("wl-copy"); err != nil {
		return fmt.Errorf("wl-copy not found: %w (install wl-clipboard)", err)
	}
	return nil
}

func (WlCopy) Copy(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, "wl-copy")
	cmd.Stdin = strings.NewReader(text)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

// System uses whatever atotto/clipboard finds: xclip, xsel, wl-clipboard or
// the platform API.
type System struct{}

func (System) Name() string { return "system" }

func (System) Available() error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility installed (xclip, xsel or wl-clipboard)")
	}
	return nil
}

func (System) Copy(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() { done <- clipboard.WriteAll(text) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("system clipboard: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
