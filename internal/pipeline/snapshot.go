package pipeline

import (
	"fmt"
	"strconv"

	"github.com/leonardotrapani/echoscribe/internal/audio"
)

// Snapshot is a read-only copy of the controller state for renderers.
type Snapshot struct {
	Status        Status         `json:"status"`
	Payload       *audio.Payload `json:"payload,omitempty"`
	Transcript    string         `json:"transcript,omitempty"`
	Error         string         `json:"error,omitempty"`
	RecorderError string         `json:"recorderError,omitempty"`
	Elapsed       int            `json:"elapsed"`
}

// ElapsedClock formats the elapsed seconds as mm:ss.
func (s Snapshot) ElapsedClock() string {
	return fmt.Sprintf("%02d:%02d", s.Elapsed/60, s.Elapsed%60)
}

// FileName is the name of the staged clip, empty when nothing is staged.
func (s Snapshot) FileName() string {
	if s.Payload == nil {
		return ""
	}
	return s.Payload.FileName
}

// Fields flattens the snapshot into key/value pairs for line protocols. The
// transcript is not included.
func (s Snapshot) Fields() map[string]string {
	fields := map[string]string{
		"status":  string(s.Status),
		"elapsed": strconv.Itoa(s.Elapsed),
	}
	if s.Payload != nil {
		fields["file"] = s.Payload.FileName
		fields["mime"] = s.Payload.MimeType
		fields["size"] = strconv.Itoa(s.Payload.Size())
	}
	if s.Error != "" {
		fields["error"] = s.Error
	}
	if s.RecorderError != "" {
		fields["recorder_error"] = s.RecorderError
	}
	return fields
}

// SnapshotFromFields is the inverse of Fields. The payload carries only its
// name and type.
func SnapshotFromFields(fields map[string]string) (Snapshot, error) {
	status := Status(fields["status"])
	switch status {
	case Idle, Recording, Processing, Success, Error:
	default:
		return Snapshot{}, fmt.Errorf("unknown status %q", fields["status"])
	}

	snap := Snapshot{
		Status:        status,
		Error:         fields["error"],
		RecorderError: fields["recorder_error"],
	}
	if v, ok := fields["elapsed"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Snapshot{}, fmt.Errorf("invalid elapsed %q: %w", v, err)
		}
		snap.Elapsed = n
	}
	if name := fields["file"]; name != "" {
		snap.Payload = &audio.Payload{FileName: name, MimeType: fields["mime"]}
	}
	return snap, nil
}
