package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
	"github.com/spf13/cobra"
)

const (
	toneSampleRate = 16000
	toneFrequency  = 440.0
	toneDuration   = time.Second
)

type probeOptions struct {
	audioPath  string
	timeout    time.Duration
	outputPath string
	all        bool
}

type probeResult struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	DurationMS  int64  `json:"duration_ms"`
	Output      string `json:"output,omitempty"`
	OutputChars int    `json:"output_chars,omitempty"`
	Error       string `json:"error,omitempty"`
}

type probeReport struct {
	StartedAt  time.Time     `json:"started_at"`
	AudioSrc   string        `json:"audio_src"`
	Results    []probeResult `json:"results"`
	PassCount  int           `json:"pass_count"`
	FailCount  int           `json:"fail_count"`
	SkipCount  int           `json:"skip_count"`
	TotalCount int           `json:"total_count"`
}

func probeCmd() *cobra.Command {
	var opts probeOptions

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send a short clip to the transcription provider and report the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.audioPath, "audio", "", "Audio file to send (defaults to a generated tone)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 45*time.Second, "Per-provider timeout")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Write JSON report to file")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Probe every provider, not just the configured one")

	return cmd
}

func runProbe(ctx context.Context, opts probeOptions) error {
	if opts.timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	startedAt := time.Now().UTC()
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	payload, audioSrc, err := loadProbeAudio(opts.audioPath)
	if err != nil {
		return err
	}

	providers := []string{cfg.Transcription.Provider}
	if opts.all {
		providers = transcriber.Providers()
	}

	var results []probeResult
	for _, name := range providers {
		tc := cfg.ToTranscriberConfig()
		if name != tc.Provider {
			tc.Provider = name
			tc.Model = transcriber.DefaultModel(name)
			tc.BaseURL = ""
		}
		tc.Timeout = opts.timeout
		results = append(results, probeProvider(ctx, tc, payload))
	}

	report := summarizeReport(startedAt, audioSrc, results)
	printReport(report)

	if opts.outputPath != "" {
		if err := writeReport(opts.outputPath, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if report.FailCount > 0 {
		return fmt.Errorf("%d provider(s) failed", report.FailCount)
	}
	return nil
}

func probeProvider(ctx context.Context, tc transcriber.Config, payload audio.Payload) probeResult {
	result := probeResult{Provider: tc.Provider, Model: tc.Model}

	key, err := config.LoadCredential(tc.Provider)
	if err != nil {
		result.Status = "skip"
		result.Error = err.Error()
		return result
	}
	tc.APIKey = key

	client, err := transcriber.New(tc)
	if err != nil {
		result.Status = "fail"
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	res := client.Transcribe(ctx, payload.Data, payload.MimeType)
	result.DurationMS = time.Since(start).Milliseconds()

	if !res.OK() {
		result.Status = "fail"
		result.Error = res.Err.Error()
		return result
	}
	result.Status = "pass"
	result.Output = res.Text
	result.OutputChars = len(res.Text)
	return result
}

func loadProbeAudio(path string) (audio.Payload, string, error) {
	if path == "" {
		return audio.NewPayload(generateTone(), audio.RecordingMimeType, "tone.wav"), "generated tone", nil
	}
	payload, err := audio.PayloadFromFile(path)
	if err != nil {
		return audio.Payload{}, "", err
	}
	return payload, path, nil
}

// generateTone returns a one second 440 Hz sine as 16-bit mono WAV.
func generateTone() []byte {
	samples := int(toneDuration.Seconds() * toneSampleRate)
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * toneFrequency * float64(i) / toneSampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16/4)))
	}
	return audio.WAV(pcm, toneSampleRate, 1)
}

func summarizeReport(startedAt time.Time, audioSrc string, results []probeResult) probeReport {
	report := probeReport{
		StartedAt: startedAt,
		AudioSrc:  audioSrc,
		Results:   results,
	}
	for _, r := range results {
		report.TotalCount++
		switch r.Status {
		case "pass":
			report.PassCount++
		case "fail":
			report.FailCount++
		case "skip":
			report.SkipCount++
		}
	}
	return report
}

func printReport(report probeReport) {
	fmt.Printf("probe: total=%d pass=%d fail=%d skip=%d\n", report.TotalCount, report.PassCount, report.FailCount, report.SkipCount)
	fmt.Printf("audio: %s\n", report.AudioSrc)
	for _, r := range report.Results {
		line := fmt.Sprintf("%s %s/%s", r.Status, r.Provider, r.Model)
		if r.DurationMS > 0 {
			line += fmt.Sprintf(" %dms", r.DurationMS)
		}
		if r.Error != "" {
			line += fmt.Sprintf(" error=%s", truncateString(r.Error, 160))
		}
		if r.Output != "" {
			line += fmt.Sprintf(" output=%q", truncateString(r.Output, 120))
		}
		fmt.Println(line)
	}
}

func writeReport(path string, report probeReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
