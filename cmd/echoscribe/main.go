package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/daemon"
	"github.com/leonardotrapani/echoscribe/internal/logging"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "echoscribe",
	Short:        "Record or upload audio and get a speaker-attributed transcript",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		recordCmd(),
		startCmd(),
		stopCmd(),
		uploadCmd(),
		transcribeCmd(),
		cancelCmd(),
		resetCmd(),
		statusCmd(),
		transcriptCmd(),
		copyCmd(),
		watchCmd(),
		versionCmd(),
		quitCmd(),
		configureCmd(),
		doctorCmd(),
		probeCmd(),
	)
}

func serveCmd() *cobra.Command {
	var web bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			manager, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := manager.GetConfig()
			logging.Init(cfg.ToLoggingConfig())

			opts := daemon.Options{Manager: manager}
			if web && !cfg.Web.Enabled {
				cfg.Web.Enabled = true
				opts = daemon.Options{Config: cfg}
			}

			d, err := daemon.New(opts)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}

	cmd.Flags().BoolVar(&web, "web", false, "Serve the web interface even if disabled in the config (disables hot reload)")
	return cmd
}

// simpleCmd sends one command and prints the acknowledgement word.
func simpleCmd(use, short string, command byte, failure string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(command, "")
			if err != nil {
				return fmt.Errorf("%s: %w", failure, err)
			}
			fmt.Println(resp.Word)
			return nil
		},
	}
}

func recordCmd() *cobra.Command {
	return simpleCmd("record", "Toggle recording on/off", bus.CmdToggle, "failed to toggle recording")
}

func startCmd() *cobra.Command {
	return simpleCmd("start", "Start recording", bus.CmdStart, "failed to start recording")
}

func stopCmd() *cobra.Command {
	return simpleCmd("stop", "Stop recording and stage the clip", bus.CmdStop, "failed to stop recording")
}

func cancelCmd() *cobra.Command {
	return simpleCmd("cancel", "Cancel the transcription in progress", bus.CmdCancel, "failed to cancel transcription")
}

func resetCmd() *cobra.Command {
	return simpleCmd("reset", "Discard the clip, transcript and errors", bus.CmdReset, "failed to reset")
}

func copyCmd() *cobra.Command {
	return simpleCmd("copy", "Copy the transcript to the clipboard", bus.CmdCopy, "failed to copy transcript")
}

func quitCmd() *cobra.Command {
	return simpleCmd("quit", "Stop the daemon", bus.CmdQuit, "failed to stop daemon")
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Stage an audio file for transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := send(bus.CmdUpload, path); err != nil {
				return fmt.Errorf("failed to upload %s: %w", args[0], err)
			}
			fmt.Printf("Ready to transcribe: %s\n", filepath.Base(path))
			return nil
		},
	}
}

func transcribeCmd() *cobra.Command {
	var wait bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe the staged clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(bus.CmdTranscribe, "")
			if err != nil {
				return fmt.Errorf("failed to start transcription: %w", err)
			}
			if !wait {
				fmt.Println(resp.Word)
				return nil
			}

			snap, err := waitSettled(timeout)
			if err != nil {
				return err
			}
			if snap.Status == pipeline.Error {
				return fmt.Errorf("transcription failed: %s", snap.Error)
			}
			fmt.Println(snap.Transcript)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the result and print the transcript")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "How long --wait waits")
	return cmd
}

func statusCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				line, err := bus.SendCommand(bus.CmdStatus, "")
				if err != nil {
					return fmt.Errorf("failed to get status: %w", err)
				}
				fmt.Print(line)
				return nil
			}

			snap, err := fetchSnapshot()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			tui.DetectColorProfile(os.Stdout)
			fmt.Println(tui.RenderSnapshot(snap))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the protocol line instead of the rendered view")
	return cmd
}

func transcriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript",
		Short: "Print the transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := fetchTranscript()
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the daemon with key controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Watch(busSource{}, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Refresh interval")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send(bus.CmdVersion, "")
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Printf("protocol %s\n", resp.Fields["proto"])
			return nil
		},
	}
}
