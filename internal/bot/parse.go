package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"civic_ingest/internal/model"
)

const (
	defaultRecent = 5
	maxRecent     = 25
)

var codeRe = regexp.MustCompile(`^CMR-\d{4}-\d{3,4}$`)

// ParseCodeArg extracts a complaint display code such as CMR-2026-2417.
// Matching is case-insensitive; the result is upper-cased.
func ParseCodeArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", fmt.Errorf("complaint code is required")
	}
	code := strings.ToUpper(fields[0])
	if !codeRe.MatchString(code) {
		return "", fmt.Errorf("invalid complaint code %q", fields[0])
	}
	return code, nil
}

// ParseLimitArg parses an optional count between 1 and 25.
func ParseLimitArg(args string) (int, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return defaultRecent, nil
	}
	n, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil || n < 1 || n > maxRecent {
		return 0, fmt.Errorf("count must be between 1 and %d", maxRecent)
	}
	return n, nil
}

// ParseStatusArg parses an optional run tab: all, scanning, approved or fake.
func ParseStatusArg(args string) (model.PostStatus, error) {
	switch s := strings.ToLower(strings.TrimSpace(args)); s {
	case "", "all":
		return "", nil
	case string(model.PostQueued), string(model.PostScanning), string(model.PostApproved), string(model.PostFake):
		return model.PostStatus(s), nil
	default:
		return "", fmt.Errorf("unknown tab %q, use: all, queued, scanning, approved, fake", s)
	}
}
