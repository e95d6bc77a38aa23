// Package detector implements the rule-based fake/spam report detector.
package detector

import (
	"regexp"
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"civic_ingest/internal/model"
	"civic_ingest/internal/textnorm"
)

// Rejection reasons, in evaluation order.
const (
	ReasonTooShort    = "too short to be a genuine report."
	ReasonPromotional = "contains spam/promotional content."
	ReasonJoke        = "appears to be a test or joke post."
	ReasonRepeated    = "repeated filler characters detected."
	ReasonIncoherent  = "no coherent text found."
	ReasonIrrelevant  = "no civic-issue relevance detected."
)

// MinLength is the shortest text, in runes, accepted as a report.
const MinLength = 40

var (
	promoPattern    = regexp.MustCompile(`http|bit\.ly|tinyurl|goo\.gl|\bt\.co/|click|buy now|discount|promo|free.*code|deal`)
	jokePattern     = regexp.MustCompile(`lol|haha|lmao|test test|not a real`)
	repeatedPattern = regexp.MustCompile(`aaa|xxx|zzz`)
	wordPattern     = regexp.MustCompile(`[a-z]{5,}`)
)

// CivicVocabulary is the fixed set of terms that mark a post as civic.
// It mixes infrastructure nouns with colloquial Hinglish complaint markers.
var CivicVocabulary = []string{
	"pothole", "light", "water", "garbage", "trash", "road", "park",
	"tree", "sewer", "drain", "bus", "parking", "broken", "repair", "fix",
	"problem", "issue", "complaint", "dirty", "unsafe", "danger", "blocked",
	"smell", "pest", "flood", "street", "signal", "traffic", "paani", "karo",
	"nahi", "gaya", "bhai", "bahut", "playground", "swing", "vandal", "leak",
}

var civicMatcher = ahocorasick.NewStringMatcher(CivicVocabulary)

// Detect runs every rule against text and collects one reason per rule
// that fires. The civic-relevance rule only fires when nothing else did.
func Detect(text string) model.Verdict {
	folded := strings.TrimSpace(textnorm.Fold(text))

	reasons := make([]string, 0, 2)
	if utf8.RuneCountInString(folded) < MinLength {
		reasons = append(reasons, ReasonTooShort)
	}
	if promoPattern.MatchString(folded) {
		reasons = append(reasons, ReasonPromotional)
	}
	if jokePattern.MatchString(folded) {
		reasons = append(reasons, ReasonJoke)
	}
	if repeatedPattern.MatchString(folded) {
		reasons = append(reasons, ReasonRepeated)
	}
	if !wordPattern.MatchString(folded) {
		reasons = append(reasons, ReasonIncoherent)
	}
	if len(reasons) == 0 && !HasCivicTerm(folded) {
		reasons = append(reasons, ReasonIrrelevant)
	}

	return model.Verdict{IsFake: len(reasons) > 0, Reasons: reasons}
}

// HasCivicTerm reports whether text contains any term of CivicVocabulary.
func HasCivicTerm(text string) bool {
	if text == "" {
		return false
	}
	return len(civicMatcher.MatchThreadSafe([]byte(textnorm.Fold(text)))) > 0
}
