package language

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Default is the UI language used when neither settings nor the locale pick one.
const Default = "en"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 (3-letter)
	display string   // Name in the language itself
	words   []string // Full word forms (e.g. "english")
	tag     language.Tag
}

var languages = []entry{
	{"en", "eng", "English", []string{"english"}, language.English},
	{"ru", "rus", "Русский", []string{"russian", "русский"}, language.Russian},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
	matcher language.Matcher
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	tags := make([]language.Tag, 0, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		for _, w := range e.words {
			byWord[w] = e
		}
		tags = append(tags, e.tag)
	}
	matcher = language.NewMatcher(tags)
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Supported returns the ISO 639-1 codes of the UI languages.
func Supported() []string {
	codes := make([]string, 0, len(languages))
	for _, e := range languages {
		codes = append(codes, e.code2)
	}
	return codes
}

// Normalize maps a code, word, BCP 47 tag, or POSIX locale ("ru_RU.UTF-8") to
// a supported ISO 639-1 code. It reports false when nothing matches.
func Normalize(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if e := lookup(value); e != nil {
		return e.code2, true
	}
	tag, err := language.Parse(localeToBCP47(value))
	if err != nil {
		return "", false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return languages[idx].code2, true
}

// DisplayName returns the native name of a supported language, or the
// uppercased input for anything else.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Detect picks a UI language from LC_ALL, LC_MESSAGES, and LANG, in that
// order, falling back to Default.
func Detect() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if code, ok := Normalize(value); ok {
			return code
		}
	}
	return Default
}

// Resolve returns the preferred code when it is supported and otherwise
// falls back to Detect.
func Resolve(preferred string) string {
	if code, ok := Normalize(preferred); ok {
		return code
	}
	return Detect()
}

func localeToBCP47(value string) string {
	if idx := strings.IndexAny(value, ".@"); idx >= 0 {
		value = value[:idx]
	}
	return strings.ReplaceAll(value, "_", "-")
}

func tagFor(code string) language.Tag {
	if e := lookup(code); e != nil {
		return e.tag
	}
	return language.English
}
