package tui

import (
	"strings"
	"testing"

	"github.com/leonardotrapani/echoscribe/internal/audio"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/muesli/termenv"
)

func init() {
	SetColorProfile(termenv.Ascii)
}

func TestRenderSnapshot(t *testing.T) {
	staged := &audio.Payload{Data: "AAAA", MimeType: "audio/mpeg", FileName: "clip.mp3"}

	tests := []struct {
		name    string
		snap    pipeline.Snapshot
		want    []string
		notWant []string
	}{
		{
			name:    "idle",
			snap:    pipeline.Snapshot{Status: pipeline.Idle},
			want:    []string{"Record audio", "echoscribe record"},
			notWant: []string{"Ready to transcribe", "echoscribe reset"},
		},
		{
			name:    "idle with microphone error",
			snap:    pipeline.Snapshot{Status: pipeline.Idle, RecorderError: pipeline.MsgMicrophone},
			want:    []string{pipeline.MsgMicrophone},
			notWant: []string{"Transcription Failed"},
		},
		{
			name: "idle with staged clip",
			snap: pipeline.Snapshot{Status: pipeline.Idle, Payload: staged},
			want: []string{"Ready to transcribe: clip.mp3", "audio/mpeg", "3 B", "echoscribe transcribe", "echoscribe reset"},
		},
		{
			name:    "recording",
			snap:    pipeline.Snapshot{Status: pipeline.Recording, Elapsed: 75},
			want:    []string{"Recording...", "01:15", "echoscribe stop"},
			notWant: []string{"echoscribe reset"},
		},
		{
			name:    "processing",
			snap:    pipeline.Snapshot{Status: pipeline.Processing, Payload: staged},
			want:    []string{"Analyzing audio... The AI is thinking.", "echoscribe cancel"},
			notWant: []string{"Ready to transcribe", "echoscribe reset"},
		},
		{
			name: "success",
			snap: pipeline.Snapshot{Status: pipeline.Success, Payload: staged, Transcript: "[00:01] Speaker 1: Hi."},
			want: []string{"Transcription Result", "[00:01] Speaker 1: Hi.", "Ready to transcribe: clip.mp3", "echoscribe copy", "echoscribe reset"},
		},
		{
			name:    "error",
			snap:    pipeline.Snapshot{Status: pipeline.Error, Error: "quota exceeded"},
			want:    []string{"Transcription Failed", "quota exceeded", "echoscribe reset"},
			notWant: []string{"echoscribe copy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSnapshot(tt.snap)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, got)
				}
			}
			if strings.Contains(got, "\x1b[") {
				t.Error("ascii profile must not emit escape codes")
			}
		})
	}
}

func TestRenderSnapshot_Deterministic(t *testing.T) {
	snap := pipeline.Snapshot{Status: pipeline.Error, Error: "boom"}
	if RenderSnapshot(snap) != RenderSnapshot(snap) {
		t.Error("rendering must be a pure function of the snapshot")
	}
}
