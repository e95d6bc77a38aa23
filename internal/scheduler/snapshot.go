package scheduler

import "civic_ingest/internal/model"

// Entry is one post of a run with everything known about it so far.
type Entry struct {
	Post           model.RawPost          `json:"post"`
	Status         model.PostStatus       `json:"status"`
	Verdict        *model.Verdict         `json:"verdict,omitempty"`
	Classification *model.Classification  `json:"classification,omitempty"`
	Record         *model.ComplaintRecord `json:"record,omitempty"`
}

// Snapshot is a read-only copy of the scheduler state.
type Snapshot struct {
	RunID   uint64      `json:"runId"`
	Running bool        `json:"running"`
	Cursor  int         `json:"cursor"`
	Total   int         `json:"total"`
	Stats   model.Stats `json:"stats"`
	Posts   []Entry     `json:"posts"`
}

// Filter returns the entries with the given status. An empty status
// returns every entry.
func (s Snapshot) Filter(status model.PostStatus) []Entry {
	if status == "" {
		return s.Posts
	}
	out := make([]Entry, 0, len(s.Posts))
	for _, e := range s.Posts {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Status returns the status of the post with the given id.
func (s Snapshot) Status(id string) (model.PostStatus, bool) {
	for _, e := range s.Posts {
		if e.Post.ID == id {
			return e.Status, true
		}
	}
	return "", false
}

// Snapshot copies the current state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		posts[i] = copyEntry(e)
	}

	return Snapshot{
		RunID:   s.runID,
		Running: s.running,
		Cursor:  s.cursor,
		Total:   len(s.entries),
		Stats:   s.stats,
		Posts:   posts,
	}
}

func copyEntry(e Entry) Entry {
	if e.Verdict != nil {
		v := *e.Verdict
		v.Reasons = append([]string(nil), e.Verdict.Reasons...)
		e.Verdict = &v
	}
	if e.Classification != nil {
		c := *e.Classification
		e.Classification = &c
	}
	if e.Record != nil {
		r := *e.Record
		e.Record = &r
	}
	return e
}
