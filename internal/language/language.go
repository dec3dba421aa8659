// Package language resolves the optional transcript language hint.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a transcript language the model can be asked to use.
type Language struct {
	Code       string // BCP 47 tag, usually ISO 639-1 (e.g. "en", "pt-BR")
	Name       string // English name
	NativeName string
}

// Auto means no hint: the model keeps the language spoken in the audio.
var Auto = Language{Code: "", Name: "Auto-detect"}

// common languages offered by the configure form; any valid tag is accepted.
var common = []string{
	"en", "es", "fr", "de", "it", "pt", "nl", "pl", "ru", "uk",
	"tr", "ar", "he", "hi", "ja", "ko", "zh", "sv", "da", "no",
	"fi", "cs", "el", "ro", "hu", "id", "vi", "th",
}

// FromCode returns the Language for code, or Auto when code is empty or not
// a well-formed language tag.
func FromCode(code string) Language {
	tag, ok := parse(code)
	if !ok {
		return Auto
	}
	return Language{
		Code:       tag.String(),
		Name:       display.English.Tags().Name(tag),
		NativeName: display.Self.Name(tag),
	}
}

// IsValidCode reports whether code is empty (auto) or a known language tag.
func IsValidCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := parse(code)
	return ok
}

// List returns the common languages in display order.
func List() []Language {
	result := make([]Language, 0, len(common))
	for _, code := range common {
		result = append(result, FromCode(code))
	}
	return result
}

// Hint is the sentence appended to the transcription instruction.
func Hint(code string) string {
	lang := FromCode(code)
	if lang.Code == "" {
		return ""
	}
	return fmt.Sprintf("Write the transcript in %s.", lang.Name)
}

// Label renders "Spanish (es)" style labels for menus and status output.
func Label(code string) string {
	lang := FromCode(code)
	if lang.Code == "" {
		return Auto.Name
	}
	return fmt.Sprintf("%s (%s)", lang.Name, lang.Code)
}

func parse(code string) (language.Tag, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return language.Und, false
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return language.Und, false
	}
	// reject tags x/text only knows as a code, e.g. "qaa"
	if display.English.Tags().Name(tag) == "" {
		return language.Und, false
	}
	return tag, true
}
