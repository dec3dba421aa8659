// Package audio turns captured or selected audio into transport-ready payloads.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// RecordingMimeType is the container type of every microphone capture.
const RecordingMimeType = "audio/wav"

var (
	ErrReadFailure = errors.New("failed to read audio")
	ErrNotAudio    = errors.New("not an audio file")
)

// Payload is a single clip staged for transcription. Data holds the base64
// encoding of the raw bytes without any data-URI header.
type Payload struct {
	Data     string `json:"-"`
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

func NewPayload(data []byte, mimeType, fileName string) Payload {
	return Payload{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
		FileName: fileName,
	}
}

// Size returns the decoded size of the payload in bytes.
func (p Payload) Size() int {
	data := p.Data
	if n := strings.Count(data, "="); n > 0 {
		return len(data)/4*3 - n
	}
	return len(data) / 4 * 3
}

// Encode reads r to completion and returns the standard base64 encoding of
// its bytes.
func Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode is the inverse of Encode. A leading data-URI header is ignored.
func Decode(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURI(s))
	if err != nil {
		return nil, fmt.Errorf("decode base64 audio: %w", err)
	}
	return data, nil
}

// StripDataURI removes a "data:<mime>;base64," prefix if present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// PayloadFromReader builds a payload from an uploaded stream. mimeType is the
// type reported by the client; when empty or generic it is sniffed from the
// content and the file extension.
func PayloadFromReader(r io.Reader, fileName, mimeType string) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	if !IsAudio(mimeType) {
		mimeType = DetectMIME(data, fileName)
	}
	if !IsAudio(mimeType) {
		return Payload{}, fmt.Errorf("%w: %s (%s)", ErrNotAudio, fileName, mimeType)
	}

	return NewPayload(data, mimeType, fileName), nil
}

func PayloadFromFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	defer f.Close()

	return PayloadFromReader(f, filepath.Base(path), "")
}

// DetectMIME prefers magic bytes and falls back to the file extension.
func DetectMIME(data []byte, fileName string) string {
	detected := mimetype.Detect(data).String()
	if IsAudio(detected) {
		return baseType(detected)
	}
	if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return byExt
	}
	return baseType(detected)
}

func IsAudio(mimeType string) bool {
	return strings.HasPrefix(baseType(mimeType), "audio/")
}

// Extension returns a file extension for an audio MIME type, ".bin" if unknown.
func Extension(mimeType string) string {
	mt := baseType(mimeType)
	for ext, t := range extensionTypes {
		if t == mt && ext != ".opus" && ext != ".oga" {
			return ext
		}
	}
	return ".bin"
}

// RecordingName generates the display name of a microphone capture.
func RecordingName(t time.Time) string {
	return fmt.Sprintf("recording-%s.wav", t.UTC().Format("2006-01-02T15-04-05.000Z"))
}

func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}
