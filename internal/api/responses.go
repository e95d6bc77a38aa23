package api

import (
	"civic_ingest/internal/mapdata"
	"civic_ingest/internal/model"
)

// StartRunResponse is returned when a run is accepted.
type StartRunResponse struct {
	RunID uint64 `json:"runId"`
	Posts int    `json:"posts"`
}

// ComplaintsResponse lists stored complaints.
type ComplaintsResponse struct {
	Complaints []ComplaintView `json:"complaints"`
	Total      int             `json:"total"`
}

// ComplaintView is a complaint with its neglect flag.
type ComplaintView struct {
	model.ComplaintRecord
	Neglected bool `json:"neglected"`
}

// UpdateStatusRequest changes a complaint's status.
type UpdateStatusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

// UpvoteResponse carries the new upvote count.
type UpvoteResponse struct {
	DisplayCode string `json:"displayCode"`
	Upvotes     int    `json:"upvotes"`
}

// MapResponse feeds the heat map.
type MapResponse struct {
	Points  []mapdata.Point `json:"points"`
	Summary mapdata.Summary `json:"summary"`
}

// ClassifyRequest asks for a dry-run classification.
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
	Hint string `json:"hint"`
}

// ClassifyResponse is the detector verdict plus the classification.
type ClassifyResponse struct {
	Verdict        model.Verdict        `json:"verdict"`
	Classification model.Classification `json:"classification"`
}

type errorResponse struct {
	Error string `json:"error"`
}
