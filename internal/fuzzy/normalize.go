package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators split tokens in addition to white space
const separators = `-_/.,;:()[]'"`

var folder = cases.Fold()

// Normalize folds case, strips diacritics and splits s into tokens on white
// space and punctuation.
func Normalize(s string) []string {
	if s == "" {
		return nil
	}
	return strings.FieldsFunc(fold(s), isSeparator)
}

// Compact is Normalize with the tokens joined back together
func Compact(s string) string {
	return strings.Join(Normalize(s), "")
}

func fold(s string) string {
	// transform.Chain carries state, so a new chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return folder.String(stripped)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}
