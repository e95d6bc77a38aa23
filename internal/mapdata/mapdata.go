// Package mapdata projects stored complaints into map markers and heat points.
package mapdata

import (
	"math"
	"time"

	"civic_ingest/internal/model"
	"civic_ingest/internal/neglect"
)

// Default map centre, used to place records that carry no coordinates.
const (
	CenterLat = 28.6139
	CenterLng = 77.2090

	fallbackSpread = 0.05
)

// Point is one complaint placed on the map.
type Point struct {
	Record    model.ComplaintRecord `json:"record"`
	Lat       float64               `json:"lat"`
	Lng       float64               `json:"lng"`
	Intensity float64               `json:"intensity"`
	Neglected bool                  `json:"neglected"`
}

// Summary is the header line of a map view.
type Summary struct {
	Total     int `json:"total"`
	Neglected int `json:"neglected"`
}

// Intensity is the heat weight of an urgency level.
func Intensity(u model.Urgency) float64 {
	switch u {
	case model.UrgencyHigh:
		return 1.0
	case model.UrgencyMedium:
		return 0.6
	default:
		return 0.3
	}
}

// Points places records on the map, keeping only those with the given
// urgency unless filter is empty. Records without coordinates are spread
// deterministically around the centre by their position in the input.
func Points(records []model.ComplaintRecord, filter model.Urgency, now time.Time) []Point {
	points := make([]Point, 0, len(records))
	for i, r := range records {
		if filter != "" && r.Urgency != filter {
			continue
		}
		lat, lng := r.Lat, r.Lng
		if !r.HasCoordinates() {
			lat, lng = fallback(i)
		}
		points = append(points, Point{
			Record:    r,
			Lat:       lat,
			Lng:       lng,
			Intensity: Intensity(r.Urgency),
			Neglected: neglect.IsNeglectedAt(r, now),
		})
	}
	return points
}

// Summarize counts points and neglected points.
func Summarize(points []Point) Summary {
	s := Summary{Total: len(points)}
	for _, p := range points {
		if p.Neglected {
			s.Neglected++
		}
	}
	return s
}

func fallback(i int) (float64, float64) {
	f := float64(i)
	return CenterLat + math.Sin(f*1.7)*fallbackSpread, CenterLng + math.Cos(f*1.3)*fallbackSpread
}
