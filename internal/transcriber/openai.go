package transcriber

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter uses the audio transcription endpoint; the instruction is
// passed as the prompt.
type OpenAIAdapter struct {
	client *openai.Client
	config Config
}

func NewOpenAIAdapter(config Config) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, req Request) (string, error) {
	data, err := audio.Decode(req.Audio)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	// The API infers the container from the file name.
	audioReq := openai.AudioRequest{
		Model:    a.config.Model,
		Reader:   bytes.NewReader(data),
		FilePath: "audio" + audio.Extension(req.MimeType),
		Prompt:   req.Instruction,
		Language: a.config.Language,
	}

	resp, err := a.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	log.Debug("openai-adapter: transcribed", "request", req.ID, "bytes", len(data))
	return resp.Text, nil
}
