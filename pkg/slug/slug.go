// Package slug converts free text into URL-safe identifier slugs.
//
// The transform is deterministic: the same input always yields the same
// slug. Callers use slugs as idempotency keys, so any change to the
// algorithm invalidates previously written data.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make converts text into a lowercase URL-safe slug.
// Accents are folded to their ASCII base letters, runs of whitespace
// become a single hyphen, and any other character is dropped. Hyphens
// already present in the input are kept as-is, so "show-x - Season 1"
// yields "show-x---season-1" rather than collapsing the separators.
func Make(text string) string {
	s := removeAccents(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if inSpace {
				b.WriteByte('-')
				inSpace = false
			}
			b.WriteRune(r)
		default:
			// Dropped punctuation does not act as a separator.
		}
	}

	return strings.Trim(b.String(), "-")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
