// Package textnorm holds the text cleaning helpers shared by the detector,
// classifier and normalizer.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Fold lowercases s and strips combining accents so that "Café" and "cafe"
// match the same keywords.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// StripHashtags removes #tag tokens.
func StripHashtags(s string) string {
	return hashtagPattern.ReplaceAllString(s, "")
}

// Collapse trims s and folds every whitespace run into a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Clean strips hashtags and collapses whitespace.
func Clean(s string) string {
	return Collapse(StripHashtags(s))
}

// Truncate cuts s to at most n runes and reports whether anything was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return strings.TrimSpace(string(r[:n])), true
}
