// Package filter implements keyword pre-filtering of incoming posts, so
// feeds can be narrowed before posts enter an ingestion run.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"civic_ingest/internal/model"
)

// Kind selects how a rule matches.
type Kind string

const (
	Include   Kind = "include"
	Exclude   Kind = "exclude"
	IncludeRe Kind = "include_re"
	ExcludeRe Kind = "exclude_re"
)

// RegexPrefix marks a configured pattern as a regular expression.
const RegexPrefix = "re:"

// Rule is a single include or exclude condition on post text.
type Rule struct {
	Kind  Kind
	Value string

	re *regexp.Regexp
}

// Match checks whether a post passes the given rules.
// No rules passes everything. Include rules are ORed; any matching
// exclude rule rejects the post.
func Match(post model.RawPost, rules []Rule) bool {
	if len(rules) == 0 {
		return true
	}

	text := strings.ToLower(post.Text)
	hasIncludes := false
	anyIncludeMatched := false

	for _, r := range rules {
		switch r.Kind {
		case Include, IncludeRe:
			hasIncludes = true
			if r.matches(text) {
				anyIncludeMatched = true
			}
		case Exclude, ExcludeRe:
			if r.matches(text) {
				return false
			}
		}
	}

	return !hasIncludes || anyIncludeMatched
}

// Apply returns the posts that pass the rules, preserving order.
func Apply(posts []model.RawPost, rules []Rule) []model.RawPost {
	if len(rules) == 0 {
		return posts
	}
	out := make([]model.RawPost, 0, len(posts))
	for _, p := range posts {
		if Match(p, rules) {
			out = append(out, p)
		}
	}
	return out
}

func (r Rule) matches(text string) bool {
	switch r.Kind {
	case Include, Exclude:
		return strings.Contains(text, strings.ToLower(r.Value))
	case IncludeRe, ExcludeRe:
		if r.re == nil {
			return false
		}
		return r.re.MatchString(text)
	}
	return false
}

// ParseRules builds rules from configured include and exclude values.
// Values prefixed with "re:" are compiled as case-insensitive regexes.
func ParseRules(include, exclude []string) ([]Rule, error) {
	var rules []Rule
	add := func(v string, plain, re Kind) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if pattern, ok := strings.CutPrefix(v, RegexPrefix); ok {
			compiled, err := compile(pattern)
			if err != nil {
				return err
			}
			rules = append(rules, Rule{Kind: re, Value: pattern, re: compiled})
			return nil
		}
		rules = append(rules, Rule{Kind: plain, Value: v})
		return nil
	}

	for _, v := range include {
		if err := add(v, Include, IncludeRe); err != nil {
			return nil, err
		}
	}
	for _, v := range exclude {
		if err := add(v, Exclude, ExcludeRe); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// ValidateRegex checks whether a pattern is a valid regular expression.
func ValidateRegex(pattern string) error {
	_, err := compile(pattern)
	return err
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return re, nil
}
