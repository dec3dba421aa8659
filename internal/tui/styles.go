package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for EchoScribe terminal components
var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and descriptions
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	StyleRecording = lipgloss.NewStyle().
			Foreground(ColorRecord).
			Bold(true)

	// Box style for the transcript and error panels
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)

	StyleErrorBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(1, 2)

	// Pill style for the staged file banner
	StylePill = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Padding(0, 1)
)

const logoASCII = `
           _                         _ _          
  ___  ___| |__   ___  ___  ___ _ __(_) |__   ___ 
 / _ \/ __| '_ \ / _ \/ __|/ __| '__| | '_ \ / _ \
|  __/ (__| | | | (_) \__ \ (__| |  | | |_) |  __/
 \___|\___|_| |_|\___/|___/\___|_|  |_|_.__/ \___|`

// Logo returns the EchoScribe ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}

func Tagline() string {
	return StyleMuted.Render("Your Personal Audio-to-Text Assistant")
}
