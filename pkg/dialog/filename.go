package dialog

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const maxFilenameRunes = 17

var (
	ErrFilenameEmpty     = errors.New("filename is empty")
	ErrFilenameForbidden = errors.New("filename contains a forbidden character")
	ErrFilenameTooLong   = errors.New("filename is too long")

	forbiddenFilenameChars = regexp.MustCompile(`[/\\:*?"<>|_]`)
)

// NormalizeFilename folds full-width characters to their half-width forms
// and strips every whitespace rune. The result is stable under repeated
// application.
func NormalizeFilename(name string) string {
	folded := width.Fold.String(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateFilename normalizes a user-supplied base name and rejects empty
// input, forbidden characters, and names longer than seventeen runes.
func ValidateFilename(name string) (string, error) {
	normalized := NormalizeFilename(name)
	if normalized == "" {
		return "", ErrFilenameEmpty
	}
	if forbiddenFilenameChars.MatchString(normalized) {
		return "", ErrFilenameForbidden
	}
	if utf8.RuneCountInString(normalized) > maxFilenameRunes {
		return "", ErrFilenameTooLong
	}
	return normalized, nil
}
