package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"civic_ingest/internal/model"
	"civic_ingest/internal/scheduler"
)

func TestParseCodeArg(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    string
		wantErr bool
	}{
		{name: "valid", args: "CMR-2026-2417", want: "CMR-2026-2417"},
		{name: "lower case", args: "cmr-2026-2417", want: "CMR-2026-2417"},
		{name: "extra words", args: "CMR-2026-2417 please", want: "CMR-2026-2417"},
		{name: "empty", args: "  ", wantErr: true},
		{name: "not a code", args: "2417", wantErr: true},
		{name: "bad year", args: "CMR-26-2417", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCodeArg(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCodeArg() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLimitArg(t *testing.T) {
	tests := []struct {
		args    string
		want    int
		wantErr bool
	}{
		{args: "", want: defaultRecent},
		{args: "10", want: 10},
		{args: "25", want: 25},
		{args: "0", wantErr: true},
		{args: "26", wantErr: true},
		{args: "many", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLimitArg(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLimitArg(%q): expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLimitArg(%q): unexpected error: %v", tt.args, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseLimitArg(%q) mismatch (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestParseStatusArg(t *testing.T) {
	tests := []struct {
		args    string
		want    model.PostStatus
		wantErr bool
	}{
		{args: "", want: ""},
		{args: "all", want: ""},
		{args: "Fake", want: model.PostFake},
		{args: "approved", want: model.PostApproved},
		{args: "done", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStatusArg(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatusArg(%q): expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatusArg(%q): unexpected error: %v", tt.args, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseStatusArg(%q) mismatch (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestFormatNotification(t *testing.T) {
	rec := model.ComplaintRecord{
		DisplayCode:  "CMR-2026-2417",
		Title:        "HUGE pothole on MG Road near metro station...",
		Urgency:      model.UrgencyHigh,
		Department:   "Roads & Transport",
		Source:       model.SourceSocial,
		SourceHandle: "@angryCitizen99",
		Lat:          28.63151,
		Lng:          77.21672,
	}

	want := "[CMR-2026-2417] HIGH urgency\n\n" +
		"HUGE pothole on MG Road near metro station...\n\n" +
		"Department: Roads & Transport\n" +
		"From: @angryCitizen99 (social-short-form)\n" +
		"Map: 28.6315, 77.2167"
	if diff := cmp.Diff(want, FormatNotification(rec)); diff != "" {
		t.Errorf("FormatNotification() mismatch (-want +got):\n%s", diff)
	}

	rec.SourceHandle = ""
	rec.Lat, rec.Lng = 0, 0
	got := FormatNotification(rec)
	if strings.Contains(got, "From:") || strings.Contains(got, "Map:") {
		t.Errorf("unexpected optional lines:\n%s", got)
	}
}

func TestFormatStatus(t *testing.T) {
	if diff := cmp.Diff("No run yet. Use /scan to start one.", FormatStatus(scheduler.Snapshot{}, "")); diff != "" {
		t.Errorf("empty status mismatch (-want +got):\n%s", diff)
	}

	snap := scheduler.Snapshot{
		RunID:   2,
		Running: true,
		Cursor:  3,
		Total:   12,
		Stats:   model.Stats{Scanned: 3, Imported: 1, Rejected: 1},
		Posts: []scheduler.Entry{
			{
				Post:           model.RawPost{ID: "t1", OriginHandle: "@delhi_resident"},
				Status:         model.PostApproved,
				Classification: &model.Classification{Confidence: 70},
				Record:         &model.ComplaintRecord{DisplayCode: "CMR-2026-2100", Department: "Electricity", Urgency: model.UrgencyMedium},
			},
			{
				Post:    model.RawPost{ID: "t4", OriginHandle: "@techie_delhi"},
				Status:  model.PostFake,
				Verdict: &model.Verdict{IsFake: true, Reasons: []string{"contains spam/promotional content."}},
			},
			{Post: model.RawPost{ID: "t2", OriginHandle: "@angryCitizen99"}, Status: model.PostScanning},
			{Post: model.RawPost{ID: "e1"}, Status: model.PostQueued},
		},
	}

	got := FormatStatus(snap, "")
	for _, want := range []string{
		"Run #2: running (3/12)",
		"Scanned: 3  Imported: 1  Rejected: 1",
		"Accuracy: 33%",
		"CMR-2026-2100 → Electricity, medium (70%)",
		"contains spam/promotional content.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "t2 ") {
		t.Errorf("all tab should only list resolved posts:\n%s", got)
	}

	scanning := FormatStatus(snap, model.PostScanning)
	if !strings.Contains(scanning, "scanning: 1") || !strings.Contains(scanning, "t2 @angryCitizen99 [scanning]") {
		t.Errorf("scanning tab mismatch:\n%s", scanning)
	}
}

func TestFormatNeglected(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if diff := cmp.Diff("No neglected complaints.", FormatNeglected(nil, now)); diff != "" {
		t.Errorf("empty mismatch (-want +got):\n%s", diff)
	}

	recs := []model.ComplaintRecord{{
		DisplayCode: "CMR-2026-2001",
		Title:       "Sewer overflow",
		Department:  "Sewage & Drainage",
		Status:      model.StatusOpen,
		CreatedAt:   now.Add(-45 * 24 * time.Hour).Format(time.RFC3339),
	}}
	want := "1 neglected complaint(s), open for 30+ days:\n\n" +
		"CMR-2026-2001 Sewer overflow\n" +
		"   Sewage & Drainage, open, 45 days ago"
	if diff := cmp.Diff(want, FormatNeglected(recs, now)); diff != "" {
		t.Errorf("FormatNeglected() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatComplaint(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &model.ComplaintRecord{
		DisplayCode:  "CMR-2026-2001",
		Title:        "Sewer overflow",
		Description:  "Sewer line overflow near the market.",
		Location:     "Auto-detected from post",
		Urgency:      model.UrgencyHigh,
		Department:   "Sewage & Drainage",
		Status:       model.StatusOpen,
		Upvotes:      7,
		CreatedAt:    now.Add(-31 * 24 * time.Hour).Format(time.RFC3339),
		Source:       model.SourceGroup,
		SourceHandle: "Saket Residents",
	}

	got := FormatComplaint(rec, now)
	for _, want := range []string{"CMR-2026-2001 [open]", "Upvotes: 7", "Filed: 31 days ago", "Neglected", "From: Saket Residents (group-message)"} {
		if !strings.Contains(got, want) {
			t.Errorf("complaint missing %q:\n%s", want, got)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		created string
		want    string
	}{
		{now.Add(-2 * time.Hour).Format(time.RFC3339), "today"},
		{now.Add(-30 * time.Hour).Format(time.RFC3339), "1 day ago"},
		{now.Add(-72 * time.Hour).Format(time.RFC3339), "3 days ago"},
		{model.JustNow, model.JustNow},
		{"", model.JustNow},
		{"yesterday-ish", "yesterday-ish"},
	}
	for _, tt := range tests {
		got := age(model.ComplaintRecord{CreatedAt: tt.created}, now)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("age(%q) mismatch (-want +got):\n%s", tt.created, diff)
		}
	}
}
