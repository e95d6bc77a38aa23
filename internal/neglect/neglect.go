// Package neglect flags complaints that stayed unresolved for too long.
package neglect

import (
	"time"

	"civic_ingest/internal/model"
)

// ThresholdDays is the age, in whole days, at which an open record is neglected.
const ThresholdDays = 30

const day = 24 * time.Hour

// IsNeglected evaluates r against the current wall clock.
func IsNeglected(r model.ComplaintRecord) bool {
	return IsNeglectedAt(r, time.Now())
}

// IsNeglectedAt reports whether r is unresolved and at least ThresholdDays
// whole days old at now. Days are counted by flooring the elapsed duration,
// not by calendar dates.
func IsNeglectedAt(r model.ComplaintRecord, now time.Time) bool {
	if r.Status == model.StatusResolved {
		return false
	}
	created, ok := r.Created()
	if !ok {
		return false
	}
	elapsed := now.Sub(created)
	if elapsed < 0 {
		return false
	}
	return int64(elapsed/day) >= ThresholdDays
}

// Count returns how many records are neglected at now.
func Count(records []model.ComplaintRecord, now time.Time) int {
	n := 0
	for _, r := range records {
		if IsNeglectedAt(r, now) {
			n++
		}
	}
	return n
}
