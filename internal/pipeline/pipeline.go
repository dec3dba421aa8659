// Package pipeline owns the application status machine that ties capture,
// file selection and transcription together.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/leonardotrapani/echoscribe/internal/recording"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

type Status string

const (
	Idle       Status = "idle"
	Recording  Status = "recording"
	Processing Status = "processing"
	Success    Status = "success"
	Error      Status = "error"
)

// Messages shown to the user for failures that have no better description.
const (
	MsgProcessRecording = "Failed to process recording."
	MsgReadFile         = "Failed to read file."
	MsgCancelled        = "transcription cancelled"
	MsgMicrophone       = "Could not access the microphone. Check that PipeWire is running and the device is available."
)

var ErrInvalidState = errors.New("operation not allowed in current state")

// Capturer is the microphone side of the controller.
type Capturer interface {
	Start(ctx context.Context) error
	Stop()
	Elapsed() int
	IsRecording() bool
	SetOnComplete(fn func(recording.Capture))
}

// Transcriber turns a staged clip into text. Failures are reported in the
// result, never as a panic.
type Transcriber interface {
	Transcribe(ctx context.Context, encodedAudio, contentType string) transcriber.Result
}

type Controller struct {
	capturer    Capturer
	transcriber Transcriber

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	status      Status
	payload     *audio.Payload
	transcript  string
	errMsg      string
	recorderErr string
	elapsed     int
	generation  uint64
	inflight    context.CancelFunc
	subs        map[string]chan Snapshot
	closed      bool
}

func New(capturer Capturer, t Transcriber) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		capturer:    capturer,
		transcriber: t,
		ctx:         ctx,
		cancel:      cancel,
		status:      Idle,
		subs:        make(map[string]chan Snapshot),
	}
	capturer.SetOnComplete(c.onCapture)
	return c
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// StartRecording moves idle to recording and opens the microphone. The
// capture session belongs to the controller, so ctx only gates the call.
func (c *Controller) StartRecording(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.status != Idle {
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot record while %s", ErrInvalidState, status)
	}
	c.generation++
	gen := c.generation
	c.status = Recording
	c.payload = nil
	c.transcript = ""
	c.errMsg = ""
	c.recorderErr = ""
	c.elapsed = 0
	c.publishLocked()
	c.mu.Unlock()

	log.Printf("Controller: starting recording")
	err := c.capturer.Start(c.ctx)
	if err == nil {
		return nil
	}

	log.Printf("Controller: recording failed to start: %v", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen && c.status == Recording {
		c.status = Idle
		if errors.Is(err, recording.ErrPermissionDenied) {
			c.recorderErr = MsgMicrophone
		} else {
			c.recorderErr = err.Error()
		}
		c.publishLocked()
	}
	return err
}

// StopRecording ends the capture. The move back to idle happens when the
// capturer reports the finished clip.
func (c *Controller) StopRecording() error {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()

	if status != Recording {
		return fmt.Errorf("%w: not recording", ErrInvalidState)
	}
	c.capturer.Stop()
	return nil
}

func (c *Controller) onCapture(capture recording.Capture) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Recording {
		log.Printf("Controller: discarding capture, status is %s", c.status)
		return
	}

	c.elapsed = capture.Elapsed
	data, err := audio.Encode(bytes.NewReader(capture.Data))
	if err != nil {
		log.Error("Controller: failed to encode recording", "err", err)
		c.status = Error
		c.errMsg = MsgProcessRecording
		c.publishLocked()
		return
	}

	c.payload = &audio.Payload{
		Data:     data,
		MimeType: capture.MimeType,
		FileName: audio.RecordingName(capture.StartedAt),
	}
	c.status = Idle
	log.Printf("Controller: recording staged as %s (%ds)", c.payload.FileName, capture.Elapsed)
	c.publishLocked()
}

// SelectFile stages an audio file from disk. Files that are not audio are
// rejected without touching the status.
func (c *Controller) SelectFile(path string) error {
	if err := c.requireIdle("select a file"); err != nil {
		return err
	}
	payload, err := audio.PayloadFromFile(path)
	return c.stage(payload, err)
}

// SelectUpload stages an uploaded clip. mimeType is the type reported by the
// client and may be empty.
func (c *Controller) SelectUpload(fileName, mimeType string, r io.Reader) error {
	if err := c.requireIdle("upload a file"); err != nil {
		return err
	}
	payload, err := audio.PayloadFromReader(r, fileName, mimeType)
	return c.stage(payload, err)
}

func (c *Controller) requireIdle(action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != Idle {
		return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, action, c.status)
	}
	return nil
}

func (c *Controller) stage(payload audio.Payload, err error) error {
	if errors.Is(err, audio.ErrNotAudio) {
		log.Printf("Controller: rejected file: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Idle {
		return fmt.Errorf("%w: status changed to %s", ErrInvalidState, c.status)
	}

	if err != nil {
		log.Error("Controller: failed to read file", "err", err)
		c.status = Error
		c.errMsg = MsgReadFile
		c.publishLocked()
		return err
	}

	c.payload = &payload
	c.transcript = ""
	c.errMsg = ""
	c.recorderErr = ""
	log.Printf("Controller: staged %s (%s, %d bytes)", payload.FileName, payload.MimeType, payload.Size())
	c.publishLocked()
	return nil
}

// RequestTranscription submits the staged clip. It reports false and leaves
// the status unchanged when nothing is staged or the controller is not idle.
func (c *Controller) RequestTranscription(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Idle || c.payload == nil || c.closed {
		return false
	}

	c.generation++
	gen := c.generation
	c.status = Processing
	c.errMsg = ""
	c.transcript = ""

	// The request outlives the caller (an HTTP handler or bus connection) but
	// not the controller.
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.ctx, cancel)
	c.inflight = func() {
		stop()
		cancel()
	}

	payload := *c.payload
	c.wg.Add(1)
	go c.transcribe(reqCtx, gen, payload)

	c.publishLocked()
	return true
}

func (c *Controller) transcribe(ctx context.Context, gen uint64, payload audio.Payload) {
	defer c.wg.Done()

	log.Printf("Controller: transcribing %s", payload.FileName)
	result := c.transcriber.Transcribe(ctx, payload.Data, payload.MimeType)
	if result.OK() {
		result = transcriber.ParseMarked(result.Text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.status != Processing {
		log.Printf("Controller: discarding stale transcription result")
		return
	}
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}

	if result.OK() {
		c.status = Success
		c.transcript = result.Text
		log.Printf("Controller: transcription succeeded (%d chars)", len(result.Text))
	} else {
		c.status = Error
		c.errMsg = result.Err.Error()
		log.Printf("Controller: transcription failed: %v", result.Err)
	}
	c.publishLocked()
}

// Cancel aborts an in-flight transcription. It reports whether there was one.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != Processing {
		return false
	}

	c.generation++
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.status = Error
	c.errMsg = MsgCancelled
	log.Printf("Controller: transcription cancelled")
	c.publishLocked()
	return true
}

// Reset returns to idle from any status, clearing the payload, transcript and
// error. An active recording is stopped and its clip dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	wasRecording := c.status == Recording
	c.generation++
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.status = Idle
	c.payload = nil
	c.transcript = ""
	c.errMsg = ""
	c.recorderErr = ""
	c.elapsed = 0
	c.publishLocked()
	c.mu.Unlock()

	if wasRecording {
		c.capturer.Stop()
	}
	log.Printf("Controller: reset")
}

// Wait blocks until in-flight transcriptions have delivered their result.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding work, releases the microphone and ends every
// subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	recordingActive := c.status == Recording
	c.mu.Unlock()

	c.cancel()
	if recordingActive {
		c.capturer.Stop()
	}
	c.wg.Wait()

	c.mu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()
}

// Subscribe returns a channel that receives a snapshot after every change.
// The current snapshot is delivered first. Events are dropped for
// subscribers that fall behind.
func (c *Controller) Subscribe() (string, <-chan Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Snapshot, 16)
	if c.closed {
		close(ch)
		return id, ch
	}
	ch <- c.snapshotLocked()
	c.subs[id] = ch
	return id, ch
}

func (c *Controller) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.subs[id]; ok {
		close(ch)
		delete(c.subs, id)
	}
}

func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for id, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			log.Debug("Controller: subscriber is behind, dropping event", "subscriber", id)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:        c.status,
		Transcript:    c.transcript,
		Error:         c.errMsg,
		RecorderError: c.recorderErr,
		Elapsed:       c.elapsed,
	}
	if c.status == Recording {
		snap.Elapsed = c.capturer.Elapsed()
	}
	if c.payload != nil {
		p := *c.payload
		snap.Payload = &p
	}
	return snap
}
