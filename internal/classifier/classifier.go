// Package classifier infers department, urgency and confidence from the raw
// text of a report. Matching runs a single Aho-Corasick pass over the text.
package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"civic_ingest/internal/model"
	"civic_ingest/internal/textnorm"
)

// Confidence scoring constants.
const (
	noMatchConfidence = 35
	baseConfidence    = 50
	perSignal         = 10
	maxConfidence     = 100

	// exclamationThreshold is how many '!' count as a severity signal.
	exclamationThreshold = 2
)

// Classifier is safe for concurrent use once built.
type Classifier struct {
	rules     []Rule
	matcher   *ahocorasick.Matcher
	keywords  []string
	kwToRules map[string][]int
	depts     []string
}

// New compiles the keyword table into a matcher.
func New(rules []Rule) *Classifier {
	c := &Classifier{
		rules:     rules,
		kwToRules: make(map[string][]int),
	}

	seenDept := make(map[string]bool)
	for i, r := range rules {
		if r.Department != "" && !seenDept[r.Department] {
			seenDept[r.Department] = true
			c.depts = append(c.depts, r.Department)
		}
		for _, kw := range r.Keywords {
			kw = strings.TrimSpace(textnorm.Fold(kw))
			if kw == "" {
				continue
			}
			if _, ok := c.kwToRules[kw]; !ok {
				c.keywords = append(c.keywords, kw)
			}
			c.kwToRules[kw] = append(c.kwToRules[kw], i)
		}
	}

	if len(c.keywords) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	}
	return c
}

var defaultClassifier = New(DefaultRules)

// Classify runs the default rule table.
func Classify(text, hint string) model.Classification {
	return defaultClassifier.Classify(text, hint)
}

// Classify scans text and hint together and derives the classification.
func (c *Classifier) Classify(text, hint string) model.Classification {
	scan := textnorm.Fold(text + " " + hint)

	matched := c.match(scan)

	counts := make(map[string]int)
	severe, minor := false, false
	for kw := range matched {
		for _, idx := range c.kwToRules[kw] {
			r := c.rules[idx]
			if r.Department != "" {
				counts[r.Department]++
			}
			if r.Severe {
				severe = true
			}
			if r.Minor {
				minor = true
			}
		}
	}

	signals := len(matched)
	if strings.Count(scan, "!") >= exclamationThreshold {
		severe = true
		signals++
	}

	dept := ""
	best := 0
	for _, d := range c.depts {
		if counts[d] > best {
			dept, best = d, counts[d]
		}
	}

	return model.Classification{
		Urgency:    urgency(dept, severe, minor),
		Department: dept,
		Confidence: confidence(signals),
	}
}

// Rules returns the table the classifier was built from.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Classifier) match(text string) map[string]bool {
	matched := make(map[string]bool)
	if c.matcher == nil || text == "" {
		return matched
	}
	for _, hit := range c.matcher.MatchThreadSafe([]byte(text)) {
		if hit < 0 || hit >= len(c.keywords) {
			continue
		}
		matched[c.keywords[hit]] = true
	}
	return matched
}

func urgency(dept string, severe, minor bool) model.Urgency {
	switch {
	case severe:
		return model.UrgencyHigh
	case dept != "":
		return model.UrgencyMedium
	case minor:
		return model.UrgencyLow
	default:
		return model.UrgencyMedium
	}
}

func confidence(signals int) int {
	if signals == 0 {
		return noMatchConfidence
	}
	return min(maxConfidence, baseConfidence+perSignal*signals)
}
