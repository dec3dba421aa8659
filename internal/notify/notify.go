package notify

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
)

const appName = "EchoScribe"

type Notifier interface {
	RecordingStarted()
	RecordingEnded()
	Transcribing()
	Transcribed(preview string)
	Aborted()
	Error(msg string)
	Notify(title, message string)
}

// New returns the notifier for a notifications.type value. Unknown types and
// "none" yield Nop.
func New(kind string) Notifier {
	switch kind {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}

// Preview shortens a transcript for a notification body.
func Preview(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "…"
}

type Desktop struct{}

func (d Desktop) RecordingStarted() { d.Notify(appName, "Recording started") }
func (d Desktop) RecordingEnded()   { d.Notify(appName, "Recording ready to transcribe") }
func (d Desktop) Transcribing()     { d.Notify(appName, "Analyzing audio...") }
func (d Desktop) Aborted()          { d.Notify(appName, "Transcription cancelled") }

func (d Desktop) Transcribed(preview string) {
	d.Notify(appName+": Transcript ready", preview)
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", appName, "-u", "critical", appName+" Error", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

func (Desktop) Notify(title, message string) {
	cmd := exec.Command("notify-send", "-a", appName, title, message)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

// Log writes notifications to the application log.
type Log struct{}

func (l Log) RecordingStarted() { l.Notify(appName, "Recording Started") }
func (l Log) RecordingEnded()   { l.Notify(appName, "Recording Ended") }
func (l Log) Transcribing()     { l.Notify(appName, "Transcribing") }
func (l Log) Aborted()          { l.Notify(appName, "Transcription Aborted") }

func (l Log) Transcribed(preview string) {
	l.Notify(appName, fmt.Sprintf("Transcript ready: %s", preview))
}

func (Log) Error(msg string) {
	log.Printf("Notification: %s Error: %s", appName, msg)
}

func (Log) Notify(title, message string) {
	log.Printf("Notification: %s - %s", title, message)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingStarted()            {}
func (Nop) RecordingEnded()              {}
func (Nop) Transcribing()                {}
func (Nop) Transcribed(preview string)   {}
func (Nop) Aborted()                     {}
func (Nop) Error(msg string)             {}
func (Nop) Notify(title, message string) {}
