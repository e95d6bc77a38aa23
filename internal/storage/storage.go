// Package storage defines the complaint store interface and its implementations.
package storage

import (
	"context"
	"errors"

	"civic_ingest/internal/model"
)

// ErrNotFound is returned when no complaint matches a lookup.
var ErrNotFound = errors.New("complaint not found")

// ListOptions narrows ListComplaints. Zero values match everything.
type ListOptions struct {
	Status  model.Status
	Urgency model.Urgency
	Limit   int
}

// Storage is the interface for complaint persistence.
type Storage interface {
	// AppendComplaint stores a record. Records are listed in append order.
	AppendComplaint(ctx context.Context, rec model.ComplaintRecord) error
	ListComplaints(ctx context.Context, opts ListOptions) ([]model.ComplaintRecord, error)
	// GetComplaintByCode returns the most recent record with the display code.
	GetComplaintByCode(ctx context.Context, code string) (*model.ComplaintRecord, error)
	UpdateStatus(ctx context.Context, code string, status model.Status) error
	Upvote(ctx context.Context, code string) (int, error)

	Close() error
}
