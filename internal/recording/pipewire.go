package recording

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// PipeWireSource captures the default (or configured) microphone through
// pw-record, streaming raw PCM from its stdout.
type PipeWireSource struct {
	config Config
}

func NewPipeWireSource(config Config) *PipeWireSource {
	return &PipeWireSource{config: config}
}

func (p *PipeWireSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := CheckPipeWireAvailable(ctx); err != nil {
		return nil, fmt.Errorf("PipeWire not available: %w", err)
	}

	cmd := exec.CommandContext(ctx, "pw-record", p.args()...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pw-record: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Printf("Recording stderr: %s", scanner.Text())
		}
	}()

	return &processStream{cmd: cmd, stdout: stdout}, nil
}

func (p *PipeWireSource) args() []string {
	args := []string{
		"--format", p.config.Format,
		"--rate", strconv.Itoa(p.config.SampleRate),
		"--channels", strconv.Itoa(p.config.Channels),
	}
	if p.config.Device != "" {
		args = append(args, "--target", p.config.Device)
	}
	return append(args, "-") // stdout
}

// processStream kills and reaps pw-record on Close, which releases the device.
type processStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	once   sync.Once
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *processStream) Close() error {
	s.once.Do(func() {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		// Wait closes the stdout pipe; a kill exit status is expected here.
		if err := s.cmd.Wait(); err != nil {
			log.Debug("Recording: pw-record exited", "err", err)
		}
	})
	return nil
}

func CheckPipeWireAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// Short timeout so a misconfigured system cannot hang Start.
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(checkCtx, "pw-cli", "info")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("PipeWire not running or accessible: %w", err)
	}
	return nil
}
