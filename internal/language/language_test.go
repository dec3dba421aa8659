package language

import "testing"

func TestFromCode(t *testing.T) {
	tests := []struct {
		code     string
		wantCode string
		wantName string
	}{
		{"en", "en", "English"},
		{"es", "es", "Spanish"},
		{"zh", "zh", "Chinese"},
		{"invalid!", "", "Auto-detect"},
		{"", "", "Auto-detect"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := FromCode(tt.code)
			if got.Code != tt.wantCode {
				t.Errorf("FromCode(%q).Code = %q, want %q", tt.code, got.Code, tt.wantCode)
			}
			if got.Name != tt.wantName {
				t.Errorf("FromCode(%q).Name = %q, want %q", tt.code, got.Name, tt.wantName)
			}
		})
	}
}

func TestFromCode_Region(t *testing.T) {
	got := FromCode("pt_BR")
	if got.Code != "pt-BR" {
		t.Errorf("FromCode(pt_BR).Code = %q, want pt-BR", got.Code)
	}
	if got.Name == "" || got.NativeName == "" {
		t.Errorf("regional tag should have names, got %+v", got)
	}
}

func TestIsValidCode(t *testing.T) {
	valid := []string{"", "en", "it", "de-CH"}
	for _, code := range valid {
		if !IsValidCode(code) {
			t.Errorf("IsValidCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"english please", "12", "!!"}
	for _, code := range invalid {
		if IsValidCode(code) {
			t.Errorf("IsValidCode(%q) = true, want false", code)
		}
	}
}

func TestList(t *testing.T) {
	langs := List()
	if len(langs) != len(common) {
		t.Fatalf("expected %d languages, got %d", len(common), len(langs))
	}
	for _, lang := range langs {
		if lang.Code == "" || lang.Name == "" {
			t.Errorf("incomplete language entry: %+v", lang)
		}
	}
	if langs[0].Code != "en" {
		t.Errorf("English should be listed first, got %q", langs[0].Code)
	}
}

func TestHint(t *testing.T) {
	if got := Hint(""); got != "" {
		t.Errorf("auto-detect should produce no hint, got %q", got)
	}
	if got := Hint("fr"); got != "Write the transcript in French." {
		t.Errorf("unexpected hint %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("es"); got != "Spanish (es)" {
		t.Errorf("Label(es) = %q", got)
	}
	if got := Label(""); got != "Auto-detect" {
		t.Errorf("Label(\"\") = %q", got)
	}
}
