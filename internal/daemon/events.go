package daemon

import (
	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/notify"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
)

const previewLength = 80

func (d *Daemon) startEventWatcher() {
	id, events := d.controller.Subscribe()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.controller.Unsubscribe(id)

		var prev pipeline.Snapshot
		first := true
		for {
			select {
			case snap, ok := <-events:
				if !ok {
					return
				}
				if !first {
					d.onTransition(prev, snap)
				}
				prev, first = snap, false
			case <-d.ctx.Done():
				return
			}
		}
	}()
}

// onTransition turns state changes into desktop notifications and the
// optional automatic clipboard copy.
func (d *Daemon) onTransition(prev, cur pipeline.Snapshot) {
	d.mu.RLock()
	n := d.notifier
	autoCopy := d.config.Clipboard.AutoCopy
	d.mu.RUnlock()

	if cur.RecorderError != "" && cur.RecorderError != prev.RecorderError {
		n.Error(cur.RecorderError)
	}
	if cur.Status == prev.Status {
		return
	}

	switch cur.Status {
	case pipeline.Recording:
		n.RecordingStarted()

	case pipeline.Idle:
		if prev.Status == pipeline.Recording && cur.Payload != nil {
			n.RecordingEnded()
		}

	case pipeline.Processing:
		n.Transcribing()

	case pipeline.Success:
		n.Transcribed(notify.Preview(cur.Transcript, previewLength))
		if autoCopy && cur.Transcript != "" {
			if err := d.copyTranscript(cur.Transcript); err != nil {
				log.Warn("Daemon: auto copy failed", "err", err)
			}
		}

	case pipeline.Error:
		if cur.Error == pipeline.MsgCancelled {
			n.Aborted()
		} else {
			n.Error(cur.Error)
		}
	}
}
