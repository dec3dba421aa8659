package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
)

const (
	processingMessage = "Analyzing audio... The AI is thinking."
	transcriptTitle   = "Transcription Result"
	failureTitle      = "Transcription Failed"
)

// RenderSnapshot draws the view for one controller state. The same state
// always renders the same text.
func RenderSnapshot(snap pipeline.Snapshot) string {
	var b strings.Builder

	b.WriteString(renderBody(snap))

	if banner := renderStaged(snap); banner != "" {
		b.WriteString("\n\n")
		b.WriteString(banner)
	}
	if hints := renderActions(snap); hints != "" {
		b.WriteString("\n\n")
		b.WriteString(StyleSubtle.Render(hints))
	}
	return b.String()
}

func renderBody(snap pipeline.Snapshot) string {
	switch snap.Status {
	case pipeline.Processing:
		return StyleHighlight.Render(processingMessage)

	case pipeline.Success:
		title := StyleLabel.Render(transcriptTitle)
		text := snap.Transcript
		if text == "" {
			text = StyleMuted.Render("(empty transcript)")
		}
		return title + "\n" + StyleBox.Render(text)

	case pipeline.Error:
		return StyleErrorBox.Render(StyleError.Render(failureTitle) + "\n" + snap.Error)

	case pipeline.Recording:
		return StyleRecording.Render("● Recording...") + " " + StyleLabel.Render(snap.ElapsedClock())

	default:
		lines := []string{StyleLabel.Render("Record audio") + StyleMuted.Render(" or upload a file")}
		if snap.RecorderError != "" {
			lines = append(lines, StyleWarning.Render(snap.RecorderError))
		}
		return strings.Join(lines, "\n")
	}
}

// renderStaged shows the pending clip whenever it can still be transcribed
// or discarded.
func renderStaged(snap pipeline.Snapshot) string {
	if snap.Payload == nil || snap.Status == pipeline.Processing || snap.Status == pipeline.Recording {
		return ""
	}
	size := humanize.Bytes(uint64(snap.Payload.Size()))
	return StylePill.Render(fmt.Sprintf("Ready to transcribe: %s", snap.Payload.FileName)) +
		StyleMuted.Render(fmt.Sprintf(" (%s, %s)", snap.Payload.MimeType, size))
}

func renderActions(snap pipeline.Snapshot) string {
	var actions []string
	switch snap.Status {
	case pipeline.Idle:
		actions = append(actions, "echoscribe record")
		if snap.Payload != nil {
			actions = append(actions, "echoscribe transcribe")
		}
	case pipeline.Recording:
		actions = append(actions, "echoscribe stop")
	case pipeline.Processing:
		actions = append(actions, "echoscribe cancel")
	case pipeline.Success:
		actions = append(actions, "echoscribe copy")
	}

	if snap.Status != pipeline.Recording && snap.Status != pipeline.Processing &&
		(snap.Payload != nil || snap.Status == pipeline.Success || snap.Status == pipeline.Error) {
		actions = append(actions, "echoscribe reset")
	}
	return strings.Join(actions, " • ")
}
