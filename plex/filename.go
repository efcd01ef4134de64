// Package plex builds Plex-friendly release filenames for downloaded movies.
package plex

import (
	"fmt"
	"strings"
	"unicode"
)

// Metadata describes a downloaded movie for filename purposes.
type Metadata struct {
	Title    string
	Year     int
	Language string
	Quality  string
	Ext      string
}

// Filename returns the canonical release filename for the given metadata,
// in the form Movie.Name.Year.Lang.Quality.EINTHUSAN.WEB-DL.ext.
//
// The function is pure: the same metadata always yields the same name.
func Filename(m Metadata) string {
	parts := []string{NormalizeTitle(m.Title)}

	if m.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", m.Year))
	}
	if m.Language != "" {
		parts = append(parts, capitalize(strings.ToLower(m.Language)))
	}
	if m.Quality != "" {
		parts = append(parts, strings.ToUpper(m.Quality))
	}

	parts = append(parts, "EINTHUSAN", "WEB-DL")

	ext := strings.TrimPrefix(m.Ext, ".")
	if ext == "" {
		ext = "mp4"
	}

	return strings.Join(parts, ".") + "." + ext
}

// NormalizeTitle collapses runs of whitespace and punctuation into
// single periods, keeps alphanumerics, and title-cases each word.
func NormalizeTitle(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for i, w := range words {
		words[i] = capitalize(w)
	}

	return strings.Join(words, ".")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
