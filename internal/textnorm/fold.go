// Package textnorm folds user-facing labels (weekday names, sheet headers,
// neighborhood names) into comparison keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and removes all whitespace.
// "Miércoles" and " miercoles " fold to the same key.
func Fold(s string) string {
	return strings.Join(strings.Fields(foldCase(s)), "")
}

// FoldSpaced is Fold but collapses whitespace to single spaces instead of removing it.
func FoldSpaced(s string) string {
	return strings.Join(strings.Fields(foldCase(s)), " ")
}

func foldCase(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
