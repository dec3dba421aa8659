package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeTool writes an executable script named name into a fresh PATH.
func fakeTool(t *testing.T, name, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	t.Setenv("PATH", dir)
}

func TestCheck_Installed(t *testing.T) {
	fakeTool(t, "pw-record", `printf '\npw-record\nCompiled with libpipewire 1.2.7\n'`)

	status := Check(context.Background(), Tools()[0])
	if !status.Installed {
		t.Fatal("expected Installed=true")
	}
	if filepath.Base(status.Path) != "pw-record" {
		t.Errorf("unexpected path %s", status.Path)
	}
	if status.Version != "pw-record" {
		t.Errorf("version should be the first non-empty line, got %q", status.Version)
	}
	if !status.OK() {
		t.Error("installed tool should be OK")
	}
}

func TestCheck_VersionFailure(t *testing.T) {
	fakeTool(t, "wl-copy", "exit 1")

	status := Check(context.Background(), Tool{Name: "wl-copy", VersionArgs: []string{"--version"}})
	if !status.Installed {
		t.Error("tool on PATH should count as installed")
	}
	if status.Version != "" {
		t.Errorf("expected empty version, got %q", status.Version)
	}
}

func TestCheck_NotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	tests := []struct {
		name   string
		tool   Tool
		wantOK bool
	}{
		{"required", Tool{Name: "pw-record", Required: true}, false},
		{"optional", Tool{Name: "notify-send"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Check(context.Background(), tt.tool)
			if status.Installed {
				t.Error("expected Installed=false when the tool is not in PATH")
			}
			if status.Path != "" {
				t.Error("expected empty path when not installed")
			}
			if status.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", status.OK(), tt.wantOK)
			}
		})
	}
}

func TestCheckAll(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	statuses := CheckAll(context.Background())
	if len(statuses) != len(Tools()) {
		t.Fatalf("expected %d statuses, got %d", len(Tools()), len(statuses))
	}
	if !statuses[0].Tool.Required {
		t.Error("required tools should come first")
	}
}
