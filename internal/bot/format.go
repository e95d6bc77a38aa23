package bot

import (
	"fmt"
	"strings"
	"time"

	"civic_ingest/internal/model"
	"civic_ingest/internal/neglect"
	"civic_ingest/internal/scheduler"
)

// FormatNotification formats a newly filed complaint as a Telegram message.
func FormatNotification(rec model.ComplaintRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n\n", rec.DisplayCode, urgencyLabel(rec.Urgency))
	b.WriteString(rec.Title)
	fmt.Fprintf(&b, "\n\nDepartment: %s", rec.Department)
	if rec.SourceHandle != "" {
		fmt.Fprintf(&b, "\nFrom: %s (%s)", rec.SourceHandle, rec.Source)
	}
	if rec.HasCoordinates() {
		fmt.Fprintf(&b, "\nMap: %.4f, %.4f", rec.Lat, rec.Lng)
	}
	return b.String()
}

// FormatStatus formats a run snapshot, optionally narrowed to one tab.
func FormatStatus(snap scheduler.Snapshot, tab model.PostStatus) string {
	if snap.RunID == 0 {
		return "No run yet. Use /scan to start one."
	}

	var b strings.Builder
	state := "finished"
	if snap.Running {
		state = "running"
	}
	fmt.Fprintf(&b, "Run #%d: %s (%d/%d)\n", snap.RunID, state, snap.Cursor, snap.Total)
	fmt.Fprintf(&b, "Scanned: %d  Imported: %d  Rejected: %d\n",
		snap.Stats.Scanned, snap.Stats.Imported, snap.Stats.Rejected)
	if acc, ok := snap.Stats.Accuracy(); ok {
		fmt.Fprintf(&b, "Accuracy: %d%%\n", acc)
	}

	entries := snap.Filter(tab)
	if tab != "" {
		fmt.Fprintf(&b, "\n%s: %d\n", tab, len(entries))
	}
	for _, e := range entries {
		if tab == "" && !e.Status.Terminal() {
			continue
		}
		b.WriteString("\n")
		b.WriteString(formatEntry(e))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEntry(e scheduler.Entry) string {
	line := fmt.Sprintf("%s %s [%s]", e.Post.ID, e.Post.OriginHandle, e.Status)
	switch {
	case e.Status == model.PostFake && e.Verdict != nil:
		return line + "\n   " + strings.Join(e.Verdict.Reasons, " ")
	case e.Status == model.PostApproved && e.Record != nil:
		return fmt.Sprintf("%s\n   %s → %s, %s (%d%%)", line, e.Record.DisplayCode,
			e.Record.Department, e.Record.Urgency, confidence(e))
	}
	return line
}

func confidence(e scheduler.Entry) int {
	if e.Classification == nil {
		return 0
	}
	return e.Classification.Confidence
}

// FormatNeglected lists complaints that have been open too long.
func FormatNeglected(records []model.ComplaintRecord, now time.Time) string {
	if len(records) == 0 {
		return "No neglected complaints."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d neglected complaint(s), open for %d+ days:\n", len(records), neglect.ThresholdDays)
	for _, r := range records {
		fmt.Fprintf(&b, "\n%s %s\n   %s, %s, %s\n", r.DisplayCode, r.Title, r.Department, r.Status, age(r, now))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatComplaintList formats complaints one per entry.
func FormatComplaintList(records []model.ComplaintRecord, now time.Time) string {
	if len(records) == 0 {
		return "No complaints yet. Use /scan to ingest some."
	}
	var b strings.Builder
	b.WriteString("Complaints:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "\n%s [%s] %s\n   %s, %s, %s\n", r.DisplayCode, r.Urgency, r.Title,
			r.Department, r.Status, age(r, now))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatComplaint formats full details of one complaint.
func FormatComplaint(rec *model.ComplaintRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", rec.DisplayCode, rec.Status)
	fmt.Fprintf(&b, "%s\n\n", rec.Title)
	fmt.Fprintf(&b, "%s\n\n", rec.Description)
	fmt.Fprintf(&b, "Department: %s\n", rec.Department)
	fmt.Fprintf(&b, "Urgency: %s\n", rec.Urgency)
	fmt.Fprintf(&b, "Location: %s\n", rec.Location)
	fmt.Fprintf(&b, "Upvotes: %d\n", rec.Upvotes)
	fmt.Fprintf(&b, "Filed: %s", age(*rec, now))
	if neglect.IsNeglectedAt(*rec, now) {
		b.WriteString("\nNeglected")
	}
	if rec.SourceHandle != "" {
		fmt.Fprintf(&b, "\nFrom: %s (%s)", rec.SourceHandle, rec.Source)
	}
	return b.String()
}

func age(r model.ComplaintRecord, now time.Time) string {
	created, ok := r.Created()
	if !ok {
		if r.CreatedAt == "" {
			return model.JustNow
		}
		return r.CreatedAt
	}
	days := int(now.Sub(created) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func urgencyLabel(u model.Urgency) string {
	switch u {
	case model.UrgencyHigh:
		return "HIGH urgency"
	case model.UrgencyLow:
		return "low urgency"
	default:
		return "medium urgency"
	}
}
