package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/audio"
)

var (
	ErrPermissionDenied = errors.New("microphone access denied")
	ErrAlreadyRecording = errors.New("already recording")
)

type Config struct {
	SampleRate   int
	Channels     int
	Format       string
	BufferSize   int
	Device       string
	TickInterval time.Duration // resolution of the elapsed counter
	MaxDuration  time.Duration // 0 disables the automatic stop
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		Channels:     1,
		Format:       "s16",
		BufferSize:   8192,
		Device:       "",
		TickInterval: time.Second,
		MaxDuration:  5 * time.Minute,
	}
}

// Source opens the microphone. Closing the returned stream releases the device.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Capture is the finished result of one recording session.
type Capture struct {
	Data      []byte // WAV container
	MimeType  string
	Elapsed   int
	StartedAt time.Time
}

type Recorder struct {
	config     Config
	source     Source
	recording  atomic.Bool
	elapsed    atomic.Int64
	onComplete atomic.Pointer[func(Capture)]

	mu      sync.Mutex // guards session
	session *session

	wg sync.WaitGroup
}

type session struct {
	stream    io.ReadCloser
	cancel    context.CancelFunc
	ticker    *time.Ticker
	startedAt time.Time

	chunkMu sync.Mutex
	chunks  [][]byte

	finalizing atomic.Bool
	stop       chan struct{}
	readDone   chan struct{}
	tickDone   chan struct{}
}

func NewRecorder(config Config, source Source) *Recorder {
	return &Recorder{config: config, source: source}
}

func NewDefaultRecorder() *Recorder {
	config := DefaultConfig()
	return NewRecorder(config, NewPipeWireSource(config))
}

// SetOnComplete registers the callback that receives every finished capture.
func (r *Recorder) SetOnComplete(fn func(Capture)) {
	r.onComplete.Store(&fn)
}

func (r *Recorder) IsRecording() bool {
	return r.recording.Load()
}

// Elapsed returns the number of ticks counted in the current or last session.
func (r *Recorder) Elapsed() int {
	return int(r.elapsed.Load())
}

// Start opens the microphone and begins accumulating audio. ctx bounds the
// whole session, not just the call.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.validateConfig(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return ErrAlreadyRecording
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	stream, err := r.source.Open(sessionCtx)
	if err != nil {
		cancel()
		log.Printf("Recording: failed to open microphone: %v", err)
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	s := &session{
		stream:    stream,
		cancel:    cancel,
		ticker:    time.NewTicker(r.config.TickInterval),
		startedAt: time.Now(),
		stop:      make(chan struct{}),
		readDone:  make(chan struct{}),
		tickDone:  make(chan struct{}),
	}

	r.session = s
	r.elapsed.Store(0)
	r.recording.Store(true)

	r.wg.Add(2)
	go r.readLoop(sessionCtx, s)
	go r.tickLoop(s)

	log.Printf("Recording: started")
	return nil
}

// Stop finalizes the active session and delivers the capture to the completion
// callback before returning. It is a no-op when nothing is recording.
func (r *Recorder) Stop() {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()

	if s == nil {
		return
	}
	r.finalize(s, true, true)
}

// Wait blocks until the background goroutines of past sessions have exited.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) readLoop(ctx context.Context, s *session) {
	defer r.wg.Done()

	buffer := make([]byte, r.config.BufferSize)
	for {
		n, err := s.stream.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])

			s.chunkMu.Lock()
			s.chunks = append(s.chunks, chunk)
			s.chunkMu.Unlock()
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !s.finalizing.Load() {
				log.Printf("Recording: read audio: %v", err)
			}
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	close(s.readDone)
	r.finalize(s, false, true)
}

func (r *Recorder) tickLoop(s *session) {
	defer r.wg.Done()

	var limit int64
	if r.config.MaxDuration > 0 {
		limit = int64(r.config.MaxDuration / r.config.TickInterval)
	}

	for {
		select {
		case <-s.stop:
			close(s.tickDone)
			return
		case <-s.ticker.C:
			select {
			case <-s.stop:
				close(s.tickDone)
				return
			default:
			}

			n := r.elapsed.Add(1)
			if limit > 0 && n >= limit {
				log.Printf("Recording: reached maximum duration of %v, stopping", r.config.MaxDuration)
				close(s.tickDone)
				r.finalize(s, true, false)
				return
			}
		}
	}
}

// finalize runs exactly once per session: it stops the counter, releases the
// device, assembles the chunks and invokes the completion callback.
func (r *Recorder) finalize(s *session, waitReader, waitTicker bool) {
	if !s.finalizing.CompareAndSwap(false, true) {
		return
	}

	close(s.stop)
	s.ticker.Stop()
	if waitTicker {
		<-s.tickDone
	}

	s.cancel()
	if err := s.stream.Close(); err != nil {
		log.Printf("Recording: release microphone: %v", err)
	}
	if waitReader {
		<-s.readDone
	}

	r.mu.Lock()
	if r.session == s {
		r.session = nil
	}
	r.mu.Unlock()
	r.recording.Store(false)

	s.chunkMu.Lock()
	var size int
	for _, c := range s.chunks {
		size += len(c)
	}
	pcm := make([]byte, 0, size)
	for _, c := range s.chunks {
		pcm = append(pcm, c...)
	}
	s.chunks = nil
	s.chunkMu.Unlock()

	capture := Capture{
		Data:      audio.WAV(pcm, r.config.SampleRate, r.config.Channels),
		MimeType:  audio.RecordingMimeType,
		Elapsed:   r.Elapsed(),
		StartedAt: s.startedAt,
	}
	log.Printf("Recording: stopped after %ds, captured %d bytes", capture.Elapsed, len(pcm))

	if fn := r.onComplete.Load(); fn != nil && *fn != nil {
		(*fn)(capture)
	}
}

func (r *Recorder) validateConfig() error {
	if r.source == nil {
		return fmt.Errorf("no audio source configured")
	}
	if r.config.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", r.config.SampleRate)
	}
	if r.config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", r.config.Channels)
	}
	if r.config.BufferSize <= 0 {
		return fmt.Errorf("invalid BufferSize: %d", r.config.BufferSize)
	}
	if r.config.Format == "" {
		return fmt.Errorf("invalid Format: empty")
	}
	if r.config.TickInterval <= 0 {
		return fmt.Errorf("invalid TickInterval: %v", r.config.TickInterval)
	}
	// s16 frames are 2 bytes per sample per channel.
	if r.config.Format == "s16" {
		frameBytes := 2 * r.config.Channels
		if r.config.BufferSize%frameBytes != 0 {
			log.Printf("Recording: BufferSize %d not aligned to frame size %d; audio frames may split",
				r.config.BufferSize, frameBytes)
		}
	}
	return nil
}
