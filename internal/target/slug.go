package target

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives a filesystem- and URL-safe identifier from free-form text.
// Diacritics are stripped, letters are lowercased, and every run of
// characters outside [a-z0-9] collapses into a single hyphen. Leading and
// trailing hyphens are trimmed, so the result never starts or ends with one.
// Safe for concurrent use.
func Slugify(raw string) string {
	// The chain carries internal transform buffers, so it must not be
	// shared between goroutines. Construction is cheap.
	deaccent := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(deaccent, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
