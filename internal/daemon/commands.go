package daemon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

// Execute runs one control request and returns the response line.
func (d *Daemon) Execute(req bus.Request) string {
	switch req.Cmd {
	case bus.CmdStart:
		if err := d.controller.StartRecording(d.ctx); err != nil {
			return bus.Err(err.Error())
		}
		return bus.OK("recording")

	case bus.CmdStop:
		if err := d.controller.StopRecording(); err != nil {
			return bus.Err(err.Error())
		}
		return bus.OK("stopped")

	case bus.CmdToggle:
		return d.toggle()

	case bus.CmdUpload:
		path := strings.TrimSpace(req.Arg)
		if path == "" {
			return bus.Err("missing file path")
		}
		if err := d.controller.SelectFile(path); err != nil {
			return bus.Err(err.Error())
		}
		return bus.OK("staged")

	case bus.CmdTranscribe:
		if !d.controller.RequestTranscription(d.ctx) {
			return bus.Err("nothing to transcribe")
		}
		return bus.OK("processing")

	case bus.CmdCancel:
		if !d.controller.Cancel() {
			return bus.Err("no transcription in progress")
		}
		return bus.OK("cancelled")

	case bus.CmdReset:
		d.controller.Reset()
		return bus.OK("reset")

	case bus.CmdStatus:
		return bus.Status(d.controller.Snapshot().Fields())

	case bus.CmdTranscript:
		snap := d.controller.Snapshot()
		switch snap.Status {
		case pipeline.Success:
			return bus.Text(snap.Transcript)
		case pipeline.Error:
			return bus.Text(transcriber.FormatMarked(transcriber.Failure(errors.New(snap.Error))))
		default:
			return bus.Err("no transcript")
		}

	case bus.CmdCopy:
		snap := d.controller.Snapshot()
		if snap.Status != pipeline.Success || snap.Transcript == "" {
			return bus.Err("no transcript to copy")
		}
		if err := d.copyTranscript(snap.Transcript); err != nil {
			return bus.Err(err.Error())
		}
		return bus.OK("copied")

	case bus.CmdVersion:
		return bus.Status(map[string]string{"proto": bus.ProtoVer})

	case bus.CmdQuit:
		d.cancel()
		return bus.OK("quitting")

	default:
		log.Printf("Unknown command: %c", req.Cmd)
		return bus.Err(fmt.Sprintf("unknown command %q", req.Cmd))
	}
}

// toggle starts a recording from any settled state and stops a running one.
// A finished transcript is discarded when a new recording starts.
func (d *Daemon) toggle() string {
	switch d.controller.Status() {
	case pipeline.Recording:
		if err := d.controller.StopRecording(); err != nil {
			return bus.Err(err.Error())
		}
		return bus.OK("stopped")

	case pipeline.Processing:
		return bus.Err("busy: transcription in progress")

	case pipeline.Success, pipeline.Error:
		d.controller.Reset()
	}

	if err := d.controller.StartRecording(d.ctx); err != nil {
		return bus.Err(err.Error())
	}
	return bus.OK("recording")
}

func (d *Daemon) copyTranscript(text string) error {
	d.mu.RLock()
	timeout := d.config.Clipboard.Timeout
	d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	return d.copy(ctx, text)
}
