package tui

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/language"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

// ConfigureResult holds the configuration result from the form.
type ConfigureResult struct {
	Config *config.Config
	// APIKey is the newly entered credential; empty keeps the current one.
	APIKey    string
	Cancelled bool
}

// providerDisplayNames maps provider IDs to human-readable names
var providerDisplayNames = map[string]string{
	"gemini": "Google Gemini",
	"openai": "OpenAI Whisper",
}

type configureValues struct {
	provider   string
	model      string
	language   string
	apiKey     string
	autoCopy   bool
	notifyType string
	webEnabled bool
	webAddr    string
	confirmed  bool
}

func valuesFrom(cfg *config.Config) configureValues {
	notifyType := cfg.Notifications.Type
	if !cfg.Notifications.Enabled {
		notifyType = "none"
	}
	return configureValues{
		provider:   cfg.Transcription.Provider,
		model:      cfg.Transcription.Model,
		language:   cfg.Transcription.Language,
		autoCopy:   cfg.Clipboard.AutoCopy,
		notifyType: notifyType,
		webEnabled: cfg.Web.Enabled,
		webAddr:    cfg.Web.Addr,
	}
}

func (v configureValues) apply(cfg *config.Config) {
	cfg.Transcription.Provider = v.provider
	cfg.Transcription.Model = strings.TrimSpace(v.model)
	if cfg.Transcription.Model == "" {
		cfg.Transcription.Model = transcriber.DefaultModel(v.provider)
	}
	cfg.Transcription.Language = v.language
	cfg.Clipboard.AutoCopy = v.autoCopy
	cfg.Notifications.Enabled = v.notifyType != "none"
	cfg.Notifications.Type = v.notifyType
	cfg.Web.Enabled = v.webEnabled
	cfg.Web.Addr = strings.TrimSpace(v.webAddr)
}

func providerOptions() []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range transcriber.Providers() {
		label := name
		if display, ok := providerDisplayNames[name]; ok {
			label = display
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func languageOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(language.Auto.Name+" (recommended)", "")}
	for _, lang := range language.List() {
		options = append(options, huh.NewOption(language.Label(lang.Code), lang.Code))
	}
	return options
}

func notificationOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Desktop notifications (notify-send)", "desktop"),
		huh.NewOption("Log to console only", "log"),
		huh.NewOption("None (silent)", "none"),
	}
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func validateAddr(addr string) error {
	if _, _, err := net.SplitHostPort(strings.TrimSpace(addr)); err != nil {
		return fmt.Errorf("expected host:port")
	}
	return nil
}

func credentialDescription(provider string) string {
	vars := strings.Join(config.CredentialEnvVars(provider), " or ")
	if key, err := config.LoadCredential(provider); err == nil {
		return fmt.Sprintf("Current key %s. Leave empty to keep it.", maskAPIKey(key))
	}
	return fmt.Sprintf("Not set. Saved to the config .env file as %s.", vars)
}

func newConfigureForm(v *configureValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Options(providerOptions()...).
				Value(&v.provider),
			huh.NewInput().
				Title("Model").
				DescriptionFunc(func() string {
					return "Leave empty for " + transcriber.DefaultModel(v.provider)
				}, &v.provider).
				Value(&v.model),
			huh.NewInput().
				Title("API Key").
				DescriptionFunc(func() string { return credentialDescription(v.provider) }, &v.provider).
				EchoMode(huh.EchoModePassword).
				Value(&v.apiKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description("Language the transcript is written in").
				Options(languageOptions()...).
				Filtering(true).
				Value(&v.language),
			huh.NewConfirm().
				Title("Copy transcripts automatically?").
				Description("Copies every successful transcript to the clipboard").
				Value(&v.autoCopy),
			huh.NewSelect[string]().
				Title("Notifications").
				Options(notificationOptions()...).
				Value(&v.notifyType),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable the local web interface?").
				Value(&v.webEnabled),
			huh.NewInput().
				Title("Web address").
				Value(&v.webAddr).
				Validate(validateAddr),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&v.confirmed),
		),
	).WithTheme(getTheme())
}

// Run shows the configuration form for cfg and returns the edited copy.
func Run(existingConfig *config.Config) (*ConfigureResult, error) {
	if existingConfig == nil {
		return nil, fmt.Errorf("config is required")
	}

	fmt.Println(Logo())
	fmt.Println(Tagline())
	fmt.Println()

	values := valuesFrom(existingConfig)
	if err := newConfigureForm(&values).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return &ConfigureResult{Cancelled: true}, err
	}
	if !values.confirmed {
		return &ConfigureResult{Cancelled: true}, nil
	}

	cfg := *existingConfig
	cfg.Clipboard.Backends = append([]string(nil), existingConfig.Clipboard.Backends...)
	values.apply(&cfg)

	return &ConfigureResult{Config: &cfg, APIKey: strings.TrimSpace(values.apiKey)}, nil
}

// Summary lists the settings that matter to the user after saving.
func Summary(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Configuration Summary"))
	b.WriteString("\n")

	model := cfg.Transcription.Model
	fmt.Fprintf(&b, "  %s %s (%s)\n", StyleLabel.Render("Transcription:"), cfg.Transcription.Provider, model)
	fmt.Fprintf(&b, "  %s %s\n", StyleLabel.Render("Language:"), language.Label(cfg.Transcription.Language))
	fmt.Fprintf(&b, "  %s %s\n", StyleLabel.Render("Clipboard:"), strings.Join(cfg.Clipboard.Backends, " -> "))
	if cfg.Clipboard.AutoCopy {
		fmt.Fprintf(&b, "  %s enabled\n", StyleLabel.Render("Auto copy:"))
	}
	if cfg.Notifications.Enabled {
		fmt.Fprintf(&b, "  %s %s\n", StyleLabel.Render("Notifications:"), cfg.Notifications.Type)
	} else {
		fmt.Fprintf(&b, "  %s disabled\n", StyleLabel.Render("Notifications:"))
	}
	if cfg.Web.Enabled {
		fmt.Fprintf(&b, "  %s http://%s\n", StyleLabel.Render("Web:"), cfg.Web.Addr)
	}
	return b.String()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
