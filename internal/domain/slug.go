package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column limits shared by the schema, the services and Slugify callers.
const (
	CaseTitleMaxLen  = 255
	CaseSlugMaxLen   = 255
	CaseTextMaxLen   = 255 // citation, court, jurisdiction
	CaseDocketMaxLen = 100
	TagNameMaxLen    = 100
	TagSlugMaxLen    = 120
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Slugify converts s into a URL-safe slug of at most maxLen bytes.
//
//   - Accented letters are folded to their ASCII base ("Café" → "cafe").
//   - Everything is lowercased.
//   - Each run of characters other than a-z and 0-9 becomes a single hyphen.
//   - Leading and trailing hyphens are removed, including one exposed by truncation.
//
// The result is empty when s contains no ASCII letters or digits.
// maxLen <= 0 disables truncation.
func Slugify(s string, maxLen int) string {
	// A transformer chain carries state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}

	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// ValidSlug reports whether s is already in canonical slug form.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
