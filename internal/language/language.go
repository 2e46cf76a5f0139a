package language

import (
	"fmt"
	"strings"
)

// Language pairs a display name with the code submitted to the recognition,
// translation, and synthesis services. Validity across all three services is
// not enforced; a downstream failure is the detection mechanism.
type Language struct {
	Name string
	Code string
}

var Supported = []Language{
	{Name: "English", Code: "en"},
	{Name: "Spanish", Code: "es"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Italian", Code: "it"},
	{Name: "Portuguese", Code: "pt"},
	{Name: "Russian", Code: "ru"},
	{Name: "Japanese", Code: "ja"},
	{Name: "Korean", Code: "ko"},
	{Name: "Chinese", Code: "zh-CN"},
	{Name: "Marathi", Code: "mr"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Kannada", Code: "kn"},
}

func DefaultSource() Language {
	return Supported[0]
}

func DefaultTarget() Language {
	return Supported[1]
}

// Lookup resolves a language code or English display name, case-insensitively.
func Lookup(input string) (Language, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Language{}, fmt.Errorf("language is empty")
	}

	for _, lang := range Supported {
		if strings.EqualFold(lang.Code, trimmed) || strings.EqualFold(lang.Name, trimmed) {
			return lang, nil
		}
	}

	return Language{}, fmt.Errorf("unsupported language %q; run `s2st languages` for the supported set", trimmed)
}

// Base returns the primary subtag, e.g. "zh" for "zh-CN". Some services
// accept only the base form.
func (l Language) Base() string {
	if idx := strings.IndexAny(l.Code, "-_"); idx > 0 {
		return l.Code[:idx]
	}
	return l.Code
}

func (l Language) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}
