package pipeline

import (
	"testing"

	"github.com/leonardotrapani/echoscribe/internal/audio"
)

func TestSnapshot_Fields(t *testing.T) {
	snap := Snapshot{
		Status:  Error,
		Payload: &audio.Payload{Data: "AAAA", MimeType: "audio/mpeg", FileName: "clip.mp3"},
		Error:   "quota exceeded",
		Elapsed: 65,
	}

	fields := snap.Fields()
	if fields["status"] != "error" || fields["file"] != "clip.mp3" || fields["mime"] != "audio/mpeg" {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields["size"] != "3" {
		t.Errorf("size = %s, want 3", fields["size"])
	}
	if _, ok := fields["recorder_error"]; ok {
		t.Error("empty recorder error should be omitted")
	}

	back, err := SnapshotFromFields(fields)
	if err != nil {
		t.Fatalf("SnapshotFromFields() error = %v", err)
	}
	if back.Status != Error || back.Error != "quota exceeded" || back.Elapsed != 65 || back.FileName() != "clip.mp3" {
		t.Errorf("unexpected snapshot %+v", back)
	}
	if back.ElapsedClock() != "01:05" {
		t.Errorf("ElapsedClock() = %s", back.ElapsedClock())
	}
}

func TestSnapshotFromFields_Invalid(t *testing.T) {
	if _, err := SnapshotFromFields(map[string]string{"status": "dancing"}); err == nil {
		t.Error("unknown status should fail")
	}
	if _, err := SnapshotFromFields(map[string]string{"status": "idle", "elapsed": "x"}); err == nil {
		t.Error("bad elapsed should fail")
	}
	snap, err := SnapshotFromFields(map[string]string{"status": "idle"})
	if err != nil || snap.Payload != nil || snap.FileName() != "" {
		t.Errorf("minimal snapshot = %+v, %v", snap, err)
	}
}
