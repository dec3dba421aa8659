package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette for the EchoScribe terminal views
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#2DD4BF") // Teal - main accent
	ColorSecondary = lipgloss.Color("#3B82F6") // Blue - secondary accent

	// Status colors
	ColorSuccess = lipgloss.Color("#22C55E") // Green
	ColorError   = lipgloss.Color("#F87171") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorRecord  = lipgloss.Color("#EF4444") // Recording dot

	// Text colors
	ColorText   = lipgloss.Color("#F3F4F6") // Bright white
	ColorMuted  = lipgloss.Color("#9CA3AF") // Gray
	ColorSubtle = lipgloss.Color("#6B7280") // Darker gray
)

// DetectColorProfile picks the color profile of w, so piped output stays
// free of escape codes.
func DetectColorProfile(w io.Writer) {
	SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
}

func SetColorProfile(p termenv.Profile) {
	lipgloss.SetColorProfile(p)
}
