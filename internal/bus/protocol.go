package bus

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Command bytes understood by the daemon.
const (
	CmdStart      byte = 'r'
	CmdStop       byte = 'x'
	CmdToggle     byte = 't'
	CmdUpload     byte = 'u'
	CmdTranscribe byte = 'p'
	CmdCancel     byte = 'c'
	CmdReset      byte = 'z'
	CmdStatus     byte = 's'
	CmdTranscript byte = 'g'
	CmdCopy       byte = 'y'
	CmdVersion    byte = 'v'
	CmdQuit       byte = 'q'
)

var ErrMalformed = errors.New("malformed message")

// Request is one line: a command byte, optionally followed by a space and an
// argument running to the end of the line.
type Request struct {
	Cmd byte
	Arg string
}

func (r Request) String() string {
	if r.Arg == "" {
		return string(r.Cmd) + "\n"
	}
	return string(r.Cmd) + " " + r.Arg + "\n"
}

func ParseRequest(line string) (Request, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Request{}, fmt.Errorf("%w: empty request", ErrMalformed)
	}

	req := Request{Cmd: line[0]}
	rest := line[1:]
	if rest == "" {
		return req, nil
	}
	if rest[0] != ' ' {
		return Request{}, fmt.Errorf("%w: expected space after command %q", ErrMalformed, line[0])
	}
	req.Arg = rest[1:]
	return req, nil
}

// Response kinds.
const (
	KindOK     = "OK"
	KindStatus = "STATUS"
	KindText   = "TEXT"
	KindErr    = "ERR"
)

type Response struct {
	Kind   string
	Word   string            // OK
	Fields map[string]string // STATUS
	Text   string            // TEXT
	Reason string            // ERR
}

func OK(word string) string {
	return KindOK + " " + word + "\n"
}

func Status(fields map[string]string) string {
	return KindStatus + " " + FormatFields(fields) + "\n"
}

func Text(text string) string {
	return KindText + " " + strconv.Quote(text) + "\n"
}

func Err(reason string) string {
	reason = strings.ReplaceAll(strings.TrimSpace(reason), "\n", " ")
	return KindErr + " " + reason + "\n"
}

func ParseResponse(line string) (Response, error) {
	line = strings.TrimRight(line, "\r\n")
	kind, rest, _ := strings.Cut(line, " ")

	switch kind {
	case KindOK:
		return Response{Kind: kind, Word: rest}, nil
	case KindStatus:
		fields, err := ParseFields(rest)
		if err != nil {
			return Response{}, err
		}
		return Response{Kind: kind, Fields: fields}, nil
	case KindText:
		text, err := strconv.Unquote(rest)
		if err != nil {
			return Response{}, fmt.Errorf("%w: bad text payload: %w", ErrMalformed, err)
		}
		return Response{Kind: kind, Text: text}, nil
	case KindErr:
		return Response{Kind: kind, Reason: rest}, nil
	default:
		return Response{}, fmt.Errorf("%w: unknown response %q", ErrMalformed, line)
	}
}

// FormatFields renders key=value pairs sorted by key. Values that are empty
// or contain spaces, quotes or '=' are quoted.
func FormatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		if v == "" || strings.ContainsAny(v, " \t\n\"=\\") {
			v = strconv.Quote(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

func ParseFields(s string) (map[string]string, error) {
	fields := make(map[string]string)
	s = strings.TrimSpace(s)

	for s != "" {
		key, rest, found := strings.Cut(s, "=")
		if !found || key == "" || strings.ContainsAny(key, " \"") {
			return nil, fmt.Errorf("%w: bad field near %q", ErrMalformed, s)
		}

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: bad quoted value for %s: %w", ErrMalformed, key, err)
			}
			value, _ = strconv.Unquote(quoted)
			rest = rest[len(quoted):]
		} else {
			end := strings.IndexByte(rest, ' ')
			if end < 0 {
				end = len(rest)
			}
			value = rest[:end]
			rest = rest[end:]
		}

		fields[key] = value
		s = strings.TrimLeft(rest, " ")
	}
	return fields, nil
}
