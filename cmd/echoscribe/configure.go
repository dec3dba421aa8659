package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/tui"
	"github.com/spf13/cobra"
)

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration for echoscribe.
This will guide you through setting up:
- The transcription provider, model and API key
- The transcript language
- Clipboard, notification and web interface preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	config.LoadEnv()

	// Load existing config or create default
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tui.DetectColorProfile(os.Stdout)
	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration form error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if result.APIKey != "" {
		path, err := config.WriteCredential(result.Config.Transcription.Provider, result.APIKey)
		if err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
		fmt.Printf("API key saved to %s\n", path)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Println()
	fmt.Print(tui.Summary(result.Config))
	fmt.Println()

	showNextSteps()
	return nil
}

func showNextSteps() {
	serviceRunning := false
	if _, err := exec.Command("systemctl", "--user", "is-active", "--quiet", "echoscribe.service").CombinedOutput(); err == nil {
		serviceRunning = true
	}

	fmt.Println("Next Steps:")
	if !serviceRunning {
		fmt.Println("1. Start the daemon: echoscribe serve (or systemctl --user start echoscribe.service)")
	} else {
		fmt.Println("1. Settings reload automatically; restart the service after changing the API key or recording settings")
	}
	fmt.Println("2. Record something: echoscribe record, then echoscribe record again to stop")
	fmt.Println("3. Transcribe it: echoscribe transcribe --wait")
	fmt.Println()

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
}
