// Package model defines the domain types used across the application.
package model

import (
	"math"
	"time"
)

// Source identifies the channel a raw post was collected from.
type Source string

// Supported post sources.
const (
	SourceSocial Source = "social-short-form"
	SourceGroup  Source = "group-message"
	SourceEmail  Source = "email"
)

// RawPost is an unprocessed, source-tagged text submission.
// It is never mutated after creation.
type RawPost struct {
	ID            string `json:"id"`
	Source        Source `json:"source"`
	OriginHandle  string `json:"originHandle"`
	ReceivedLabel string `json:"receivedLabel"`
	Text          string `json:"text"`
	// Location is set by connectors that know where the post came from.
	Location string `json:"location,omitempty"`
}

// Verdict is the outcome of the fake/spam detector.
type Verdict struct {
	IsFake  bool     `json:"isFake"`
	Reasons []string `json:"reasons"`
}

// Urgency is the inferred priority of a complaint.
type Urgency string

// Supported urgency levels.
const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Classification is the classifier output for a genuine post.
// An empty Department means no department matched.
type Classification struct {
	Urgency    Urgency `json:"urgency"`
	Department string  `json:"department,omitempty"`
	Confidence int     `json:"confidence"`
}

// Status is the lifecycle state of a stored complaint.
type Status string

// Supported complaint statuses.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// JustNow marks a record whose creation time is "just created" rather than a
// parseable timestamp.
const JustNow = "Just now"

// ComplaintRecord is the normalized unit written to the complaint store.
type ComplaintRecord struct {
	ID           string  `json:"id"`
	DisplayCode  string  `json:"displayCode"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	Urgency      Urgency `json:"urgency"`
	Department   string  `json:"department"`
	Status       Status  `json:"status"`
	Upvotes      int     `json:"upvotes"`
	CreatedAt    string  `json:"createdAt"`
	Source       Source  `json:"source"`
	SourceHandle string  `json:"sourceHandle"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// Created parses CreatedAt. It returns false for the JustNow sentinel and
// for anything that is not an RFC 3339 timestamp.
func (r ComplaintRecord) Created() (time.Time, bool) {
	if r.CreatedAt == "" || r.CreatedAt == JustNow {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HasCoordinates reports whether the record carries a geocoded position.
func (r ComplaintRecord) HasCoordinates() bool {
	return r.Lat != 0 || r.Lng != 0
}

// PostStatus is the per-post state inside an ingestion run.
type PostStatus string

// Per-post states. Fake and approved are terminal.
const (
	PostQueued   PostStatus = "queued"
	PostScanning PostStatus = "scanning"
	PostFake     PostStatus = "fake"
	PostApproved PostStatus = "approved"
)

// Terminal reports whether the status is a final state.
func (s PostStatus) Terminal() bool {
	return s == PostFake || s == PostApproved
}

// Stats holds the running counters of an ingestion run.
type Stats struct {
	Scanned  int `json:"scanned"`
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
}

// Accuracy returns the share of scanned posts that were imported, as a
// rounded percentage. It returns false before anything was scanned.
func (s Stats) Accuracy() (int, bool) {
	if s.Scanned == 0 {
		return 0, false
	}
	return int(math.Round(float64(s.Imported) / float64(s.Scanned) * 100)), true
}
