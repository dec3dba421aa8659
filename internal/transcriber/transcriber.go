package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/leonardotrapani/echoscribe/internal/language"
)

// Instruction is sent with every clip.
const Instruction = "Transcribe the following audio recording, identifying different speakers and including timestamps. " +
	"For example: [00:01] Speaker 1: Hello there. [00:03] Speaker 2: Hi, how are you?"

// Adapter performs one round trip against a transcription backend.
type Adapter interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}

// Request is what goes over the wire: the instruction plus inline audio.
type Request struct {
	ID          string
	Instruction string
	Audio       string // base64, no data-URI header
	MimeType    string
}

type Config struct {
	Provider string
	APIKey   string
	Model    string
	Language string
	BaseURL  string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Model:    DefaultModel("gemini"),
		Timeout:  2 * time.Minute,
	}
}

// DefaultModel returns the model used when the config leaves it empty.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return "whisper-1"
	default:
		return "gemini-2.5-flash"
	}
}

// Providers lists the supported backends.
func Providers() []string {
	return []string{"gemini", "openai"}
}

// Client is the transcription client used by the application controller.
type Client struct {
	adapter Adapter
	config  Config
}

func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key required", config.Provider)
	}
	if config.Model == "" {
		config.Model = DefaultModel(config.Provider)
	}

	var adapter Adapter
	switch config.Provider {
	case "gemini":
		adapter = NewGeminiAdapter(config)
	case "openai":
		adapter = NewOpenAIAdapter(config)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	return NewWithAdapter(config, adapter), nil
}

func NewWithAdapter(config Config, adapter Adapter) *Client {
	return &Client{adapter: adapter, config: config}
}

// Transcribe sends the encoded clip and never returns a raw fault: every
// failure ends up in Result.Err.
func (c *Client) Transcribe(ctx context.Context, encodedAudio, contentType string) (result Result) {
	req := Request{
		ID:          uuid.NewString(),
		Instruction: c.instruction(),
		Audio:       encodedAudio,
		MimeType:    contentType,
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Transcriber: adapter panicked", "request", req.ID, "panic", r)
			result = Failure(fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	log.Info("Transcriber: sending audio", "request", req.ID, "provider", c.config.Provider,
		"mime", contentType, "encoded_bytes", len(encodedAudio))

	start := time.Now()
	text, err := c.adapter.Transcribe(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Error("Transcriber: request failed", "request", req.ID, "after", duration, "err", err)
		return Failure(err)
	}

	log.Info("Transcriber: request completed", "request", req.ID, "after", duration, "chars", len(text))
	return ParseMarked(text)
}

func (c *Client) instruction() string {
	hint := language.Hint(c.config.Language)
	if hint == "" {
		return Instruction
	}
	return strings.Join([]string{Instruction, hint}, " ")
}
