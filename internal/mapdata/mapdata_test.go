package mapdata

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"civic_ingest/internal/model"
)

func TestIntensity(t *testing.T) {
	tests := []struct {
		urgency model.Urgency
		want    float64
	}{
		{model.UrgencyHigh, 1.0},
		{model.UrgencyMedium, 0.6},
		{model.UrgencyLow, 0.3},
		{"", 0.3},
	}
	for _, tt := range tests {
		if got := Intensity(tt.urgency); got != tt.want {
			t.Errorf("Intensity(%q) = %v, want %v", tt.urgency, got, tt.want)
		}
	}
}

func TestPoints(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-40 * 24 * time.Hour).Format(time.RFC3339)

	records := []model.ComplaintRecord{
		{ID: "a", Urgency: model.UrgencyHigh, Status: model.StatusOpen, CreatedAt: old, Lat: 28.63, Lng: 77.21},
		{ID: "b", Urgency: model.UrgencyLow, Status: model.StatusOpen, CreatedAt: model.JustNow},
		{ID: "c", Urgency: model.UrgencyHigh, Status: model.StatusResolved, CreatedAt: old, Lat: 28.55, Lng: 77.25},
	}

	t.Run("all", func(t *testing.T) {
		got := Points(records, "", now)
		if diff := cmp.Diff(3, len(got)); diff != "" {
			t.Fatalf("point count mismatch (-want +got):\n%s", diff)
		}

		want := Point{Record: records[0], Lat: 28.63, Lng: 77.21, Intensity: 1.0, Neglected: true}
		if diff := cmp.Diff(want, got[0]); diff != "" {
			t.Errorf("first point mismatch (-want +got):\n%s", diff)
		}

		wantLat := CenterLat + math.Sin(1.7)*0.05
		wantLng := CenterLng + math.Cos(1.3)*0.05
		approx := cmpopts.EquateApprox(0, 1e-9)
		if diff := cmp.Diff(wantLat, got[1].Lat, approx); diff != "" {
			t.Errorf("fallback lat mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(wantLng, got[1].Lng, approx); diff != "" {
			t.Errorf("fallback lng mismatch (-want +got):\n%s", diff)
		}

		if diff := cmp.Diff(Summary{Total: 3, Neglected: 1}, Summarize(got)); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("urgency filter", func(t *testing.T) {
		got := Points(records, model.UrgencyHigh, now)
		ids := make([]string, 0, len(got))
		for _, p := range got {
			ids = append(ids, p.Record.ID)
		}
		if diff := cmp.Diff([]string{"a", "c"}, ids); diff != "" {
			t.Errorf("filtered ids mismatch (-want +got):\n%s", diff)
		}
	})
}
