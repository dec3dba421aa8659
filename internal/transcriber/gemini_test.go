package transcriber

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGeminiTestServer(t *testing.T, status int, response string, inspect func(*http.Request, geminiRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body geminiRequest
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if inspect != nil {
			inspect(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiAdapter_RequestShape(t *testing.T) {
	server := newGeminiTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"[00:01] Speaker 1: "},{"text":"Hello."}]}}]}`,
		func(r *http.Request, body geminiRequest) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/v1beta/models/gemini-2.5-flash:generateContent" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
				t.Errorf("expected api key header, got %q", got)
			}
			if len(body.Contents) != 1 || len(body.Contents[0].Parts) != 2 {
				t.Fatalf("expected one content with two parts, got %+v", body.Contents)
			}
			parts := body.Contents[0].Parts
			if parts[0].Text != "transcribe this" {
				t.Errorf("first part should be the instruction, got %q", parts[0].Text)
			}
			if parts[1].InlineData == nil {
				t.Fatal("second part should carry inline audio")
			}
			if parts[1].InlineData.MimeType != "audio/webm" || parts[1].InlineData.Data != "AAEC" {
				t.Errorf("unexpected inline data %+v", parts[1].InlineData)
			}
		})

	adapter := NewGeminiAdapter(Config{APIKey: "test-key", Model: "gemini-2.5-flash", BaseURL: server.URL + "/"})
	text, err := adapter.Transcribe(context.Background(), Request{
		Instruction: "transcribe this",
		Audio:       "AAEC",
		MimeType:    "audio/webm",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "[00:01] Speaker 1: Hello." {
		t.Errorf("parts should be concatenated, got %q", text)
	}
}

func TestGeminiAdapter_Responses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		wantText string
		wantErr  string
	}{
		{
			name:     "no candidates is empty text",
			status:   http.StatusOK,
			response: `{"candidates":[]}`,
			wantText: "",
		},
		{
			name:     "error body message is surfaced",
			status:   http.StatusTooManyRequests,
			response: `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
			wantErr:  "quota exceeded",
		},
		{
			name:     "opaque error body",
			status:   http.StatusBadGateway,
			response: `<html>bad gateway</html>`,
			wantErr:  "status 502",
		},
		{
			name:     "blocked prompt",
			status:   http.StatusOK,
			response: `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr:  "SAFETY",
		},
		{
			name:     "malformed success body",
			status:   http.StatusOK,
			response: `{"candidates":`,
			wantErr:  "parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGeminiTestServer(t, tt.status, tt.response, nil)
			adapter := NewGeminiAdapter(Config{APIKey: "k", Model: "m", BaseURL: server.URL})

			text, err := adapter.Transcribe(context.Background(), Request{Instruction: "i", Audio: "AA==", MimeType: "audio/wav"})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, text)
			}
		})
	}
}

func TestGeminiAdapter_ThroughClient(t *testing.T) {
	server := newGeminiTestServer(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, nil)

	client, err := New(Config{Provider: "gemini", APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := client.Transcribe(context.Background(), "AA==", "audio/wav")
	if result.OK() {
		t.Fatal("expected a failed result")
	}
	if result.Err.Error() != "API key not valid" {
		t.Errorf("message should come from the error body, got %q", result.Err.Error())
	}
}

func TestGeminiAdapter_DefaultBaseURL(t *testing.T) {
	adapter := NewGeminiAdapter(Config{APIKey: "k", Model: "m"})
	if adapter.baseURL != defaultGeminiBaseURL {
		t.Errorf("expected default base url, got %s", adapter.baseURL)
	}
}
