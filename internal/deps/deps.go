package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 2 * time.Second

// Tool is an external program EchoScribe shells out to.
type Tool struct {
	Name        string
	VersionArgs []string
	Purpose     string
	Required    bool
}

// Status represents the installation status of a dependency
type Status struct {
	Tool      Tool
	Installed bool
	Path      string
	Version   string
}

// OK reports whether the tool is usable or not needed.
func (s Status) OK() bool {
	return s.Installed || !s.Tool.Required
}

// Tools lists the programs the daemon uses, required ones first.
func Tools() []Tool {
	return []Tool{
		{Name: "pw-record", VersionArgs: []string{"--version"}, Purpose: "microphone capture", Required: true},
		{Name: "pw-cli", VersionArgs: []string{"--version"}, Purpose: "PipeWire availability check"},
		{Name: "wl-copy", VersionArgs: []string{"--version"}, Purpose: "Wayland clipboard"},
		{Name: "notify-send", VersionArgs: []string{"--version"}, Purpose: "desktop notifications"},
	}
}

// Check looks tool up on PATH and asks it for its version.
func Check(ctx context.Context, tool Tool) Status {
	path, err := exec.LookPath(tool.Name)
	if err != nil {
		return Status{Tool: tool, Installed: false}
	}

	status := Status{
		Tool:      tool,
		Installed: true,
		Path:      path,
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	// first non-empty line is the version banner
	output, err := exec.CommandContext(ctx, path, tool.VersionArgs...).Output()
	if err == nil {
		for _, line := range strings.Split(string(output), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				status.Version = line
				break
			}
		}
	}

	return status
}

func CheckAll(ctx context.Context) []Status {
	tools := Tools()
	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		statuses = append(statuses, Check(ctx, tool))
	}
	return statuses
}
