package main

import (
	"context"
	"fmt"
	"os"

	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/deps"
	"github.com/leonardotrapani/echoscribe/internal/recording"
	"github.com/leonardotrapani/echoscribe/internal/tui"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, credentials and the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context())
		},
	}
}

func runDoctor(ctx context.Context) error {
	tui.DetectColorProfile(os.Stdout)
	config.LoadEnv()

	healthy := true
	check := func(ok bool, label, detail string) {
		mark := tui.StyleSuccess.Render("ok  ")
		if !ok {
			mark = tui.StyleError.Render("FAIL")
			healthy = false
		}
		fmt.Printf("%s %s %s\n", mark, tui.StyleLabel.Render(label), tui.StyleMuted.Render(detail))
	}
	warn := func(label, detail string) {
		fmt.Printf("%s %s %s\n", tui.StyleWarning.Render("warn"), tui.StyleLabel.Render(label), tui.StyleMuted.Render(detail))
	}

	for _, status := range deps.CheckAll(ctx) {
		detail := status.Tool.Purpose
		if status.Installed {
			detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
		}
		if status.Installed || status.Tool.Required {
			check(status.Installed, status.Tool.Name, detail)
		} else {
			warn(status.Tool.Name, "not found, "+detail+" unavailable")
		}
	}

	if err := recording.CheckPipeWireAvailable(ctx); err != nil {
		check(false, "pipewire", err.Error())
	} else {
		check(true, "pipewire", "running")
	}

	cfg, err := config.Load()
	if err != nil {
		check(false, "config", err.Error())
	} else {
		path, _ := config.GetConfigPath()
		check(cfg.Validate() == nil, "config", path)
		if _, err := config.LoadCredential(cfg.Transcription.Provider); err != nil {
			check(false, "credential", err.Error())
		} else {
			check(true, "credential", cfg.Transcription.Provider)
		}
	}

	if line, err := bus.SendCommand(bus.CmdVersion, ""); err != nil {
		warn("daemon", "not running")
	} else if resp, err := bus.ParseResponse(line); err == nil && resp.Fields["proto"] != bus.ProtoVer {
		check(false, "daemon", fmt.Sprintf("protocol %s, expected %s", resp.Fields["proto"], bus.ProtoVer))
	} else {
		check(true, "daemon", "running")
	}

	if !healthy {
		return fmt.Errorf("some checks failed")
	}
	return nil
}
