package params

import (
	"sort"
	"strings"

	"github.com/searchforge/csbench/internal/errors"
)

// Language is a CodeSearchNet corpus language.
type Language string

const (
	LangRuby       Language = "ruby"
	LangJavaScript Language = "javascript"
	LangPHP        Language = "php"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangPython     Language = "python"
)

// recognizedLanguages is the full CodeSearchNet language set.
var recognizedLanguages = map[Language]bool{
	LangRuby:       true,
	LangJavaScript: true,
	LangPHP:        true,
	LangJava:       true,
	LangGo:         true,
	LangPython:     true,
}

// AllLanguages returns the recognized languages in stable (sorted) order.
func AllLanguages() []Language {
	langs := make([]Language, 0, len(recognizedLanguages))
	for l := range recognizedLanguages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// ParseLanguage validates a language tag. Tags are matched
// case-insensitively; the canonical lowercase form is returned.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "language must not be empty", nil)
	}
	if !recognizedLanguages[l] {
		return "", errors.New(errors.ErrCodeUnknownLanguage, "unknown language: "+string(s), nil).
			WithSuggestion("valid languages: " + joinLanguages())
	}
	return l, nil
}

// ParseLanguages validates a list of language tags, preserving input order.
func ParseLanguages(tags []string) ([]Language, error) {
	langs := make([]Language, 0, len(tags))
	for _, tag := range tags {
		l, err := ParseLanguage(tag)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, nil
}

func (l Language) String() string {
	return string(l)
}

func joinLanguages() string {
	all := AllLanguages()
	parts := make([]string, len(all))
	for i, l := range all {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
