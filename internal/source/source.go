// Package source provides the feeds posts are read from before an
// ingestion run.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"civic_ingest/internal/filter"
	"civic_ingest/internal/model"
)

// Feed yields a batch of raw posts.
type Feed interface {
	Name() string
	Posts(ctx context.Context) ([]model.RawPost, error)
}

// Multi concatenates several feeds in order. A failing feed is logged and
// skipped so one broken connector does not block the run.
type Multi struct {
	feeds []Feed
	rules []filter.Rule
	log   *slog.Logger
}

// NewMulti creates a Multi over feeds. Posts that fail rules are dropped.
func NewMulti(log *slog.Logger, rules []filter.Rule, feeds ...Feed) *Multi {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Multi{feeds: feeds, rules: rules, log: log}
}

// Name implements Feed.
func (m *Multi) Name() string { return "multi" }

// Posts implements Feed. Duplicate post ids keep their first occurrence.
func (m *Multi) Posts(ctx context.Context) ([]model.RawPost, error) {
	var out []model.RawPost
	seen := make(map[string]struct{})

	for _, f := range m.feeds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read feeds: %w", err)
		}

		posts, err := f.Posts(ctx)
		if err != nil {
			m.log.Error("read feed", "feed", f.Name(), "error", err)
			continue
		}

		kept := filter.Apply(posts, m.rules)
		for _, p := range kept {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
		m.log.Debug("read feed", "feed", f.Name(), "posts", len(posts), "kept", len(kept))
	}

	return out, nil
}
