// Package web serves the local HTTP API and the WebSocket event stream that a
// browser page uses to drive the daemon.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/recording"
)

// Controller is the part of pipeline.Controller the HTTP surface drives.
type Controller interface {
	Snapshot() pipeline.Snapshot
	StartRecording(ctx context.Context) error
	StopRecording() error
	SelectUpload(fileName, mimeType string, r io.Reader) error
	RequestTranscription(ctx context.Context) bool
	Cancel() bool
	Reset()
	Subscribe() (string, <-chan pipeline.Snapshot)
	Unsubscribe(id string)
}

type Copier interface {
	Copy(ctx context.Context, text string) error
}

type Config struct {
	Addr           string
	MaxUploadBytes int64
	// TickInterval paces elapsed-time updates on the event stream while
	// recording.
	TickInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:7645",
		MaxUploadBytes: 100 << 20,
		TickInterval:   time.Second,
	}
}

type Server struct {
	config     Config
	controller Controller
	copier     Copier
	upgrader   websocket.Upgrader
	mux        *http.ServeMux
}

type errorResponse struct {
	Error    string            `json:"error"`
	Snapshot pipeline.Snapshot `json:"snapshot"`
}

func New(config Config, controller Controller, copier Copier) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}

	s := &Server{
		config:     config,
		controller: controller,
		copier:     copier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHost,
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/record/start", s.handleRecordStart)
	s.mux.HandleFunc("POST /api/record/stop", s.handleRecordStop)
	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("POST /api/cancel", s.handleCancel)
	s.mux.HandleFunc("POST /api/reset", s.handleReset)
	s.mux.HandleFunc("POST /api/copy", s.handleCopy)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web: shutdown: %v", err)
		}
	}()

	log.Printf("Web: listening on http://%s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleRecordStart(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.StartRecording(r.Context()); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleRecordStop(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.StopRecording(); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	err = s.controller.SelectUpload(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if !s.controller.RequestTranscription(r.Context()) {
		s.writeError(w, http.StatusConflict, errors.New("nothing to transcribe"))
		return
	}
	writeJSON(w, http.StatusAccepted, s.controller.Snapshot())
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if !s.controller.Cancel() {
		s.writeError(w, http.StatusConflict, errors.New("no transcription in progress"))
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset()
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	snap := s.controller.Snapshot()
	if snap.Status != pipeline.Success || snap.Transcript == "" {
		s.writeError(w, http.StatusConflict, errors.New("no transcript to copy"))
		return
	}
	if err := s.copier.Copy(r.Context(), snap.Transcript); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	log.Debug("Web: request failed", "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Snapshot: s.controller.Snapshot()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, audio.ErrNotAudio):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, audio.ErrReadFailure):
		return http.StatusBadRequest
	case errors.Is(err, recording.ErrPermissionDenied):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Web: write response: %v", err)
	}
}
