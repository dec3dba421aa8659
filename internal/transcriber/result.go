package transcriber

import (
	"errors"
	"strings"
)

// ErrorMarker prefixes failures when a result has to travel as plain text.
const ErrorMarker = "Error:"

var ErrTranscriptionFailed = errors.New("transcription failed")

// Error carries the cause of a failed transcription. Its message is the
// cause's message so it can be shown to the user as is.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ErrTranscriptionFailed.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e == nil || e.Err == nil {
		return []error{ErrTranscriptionFailed}
	}
	return []error{ErrTranscriptionFailed, e.Err}
}

// Result is either recognized text or a failure.
type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failure(err error) Result {
	if err == nil {
		err = ErrTranscriptionFailed
	}
	var te *Error
	if errors.As(err, &te) {
		return Result{Err: err}
	}
	return Result{Err: &Error{Err: err}}
}

// ParseMarked converts marker-prefixed text into a failure with the marker
// stripped; any other text is a success.
func ParseMarked(text string) Result {
	if !strings.HasPrefix(text, ErrorMarker) {
		return Success(text)
	}
	msg := strings.TrimPrefix(strings.TrimPrefix(text, ErrorMarker), " ")
	if msg == "" {
		return Failure(nil)
	}
	return Failure(errors.New(msg))
}

// FormatMarked is the inverse of ParseMarked.
func FormatMarked(r Result) string {
	if r.OK() {
		return r.Text
	}
	return ErrorMarker + " " + r.Err.Error()
}
