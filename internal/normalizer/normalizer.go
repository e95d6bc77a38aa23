// Package normalizer turns an approved raw post and its classification into a
// store-ready complaint record.
//
// Coordinates are a display approximation: a random point from a fixed list
// of city locations plus a small jitter. No geocoding service is involved.
package normalizer

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"civic_ingest/internal/model"
	"civic_ingest/internal/textnorm"
)

// Record defaults.
const (
	TitleLimit         = 60
	Ellipsis           = "..."
	AutoLocation       = "Auto-detected from post"
	FallbackDepartment = "Infrastructure"

	// MaxJitter bounds the random offset applied to each axis, in degrees.
	MaxJitter = 0.005

	codeBase    = 2000
	codeSpread  = 999
	maxUpvotes  = 20
	displayCode = "CMR-%d-%d"
)

// Spot is a plausible city location used as a coordinate anchor.
type Spot struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// DelhiSpots is the default anchor list.
var DelhiSpots = []Spot{
	{28.6315, 77.2167}, {28.5677, 77.2433}, {28.7298, 77.1116}, {28.6517, 77.1906},
	{28.5823, 77.0500}, {28.6289, 77.0836}, {28.6692, 77.2887}, {28.7006, 77.1318},
	{28.5488, 77.2519}, {28.6780, 77.2223}, {28.7147, 77.1902}, {28.5756, 77.1935},
}

// Normalizer builds complaint records. It is safe for concurrent use.
type Normalizer struct {
	mu       sync.Mutex
	src      *rand.ChaCha8
	rng      *rand.Rand
	now      func() time.Time
	spots    []Spot
	fallback string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSeed makes the random stream reproducible.
func WithSeed(seed uint64) Option {
	return func(n *Normalizer) {
		n.src = rand.NewChaCha8(seedBytes(seed))
	}
}

// WithClock overrides the time source used for id timestamps and createdAt.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithSpots replaces the coordinate anchor list. An empty list is ignored.
func WithSpots(spots []Spot) Option {
	return func(n *Normalizer) {
		if len(spots) > 0 {
			n.spots = append([]Spot(nil), spots...)
		}
	}
}

// WithFallbackDepartment sets the department used when none was classified.
func WithFallbackDepartment(dept string) Option {
	return func(n *Normalizer) {
		if dept != "" {
			n.fallback = dept
		}
	}
}

// New creates a Normalizer seeded from the wall clock unless WithSeed is given.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:      time.Now,
		spots:    DelhiSpots,
		fallback: FallbackDepartment,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.src == nil {
		n.src = rand.NewChaCha8(seedBytes(uint64(time.Now().UnixNano())))
	}
	n.rng = rand.New(n.src)
	return n
}

// Normalize builds a new record. It never fails.
func (n *Normalizer) Normalize(post model.RawPost, cls model.Classification) model.ComplaintRecord {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now().UTC()

	dept := cls.Department
	if dept == "" {
		dept = n.fallback
	}
	urgency := cls.Urgency
	if urgency == "" {
		urgency = model.UrgencyMedium
	}
	location := post.Location
	if location == "" {
		location = AutoLocation
	}
	lat, lng := n.coordinates()

	return model.ComplaintRecord{
		ID:           n.newID(now),
		DisplayCode:  fmt.Sprintf(displayCode, now.Year(), codeBase+n.rng.IntN(codeSpread)),
		Title:        Title(post.Text),
		Description:  textnorm.Clean(post.Text),
		Location:     location,
		Urgency:      urgency,
		Department:   dept,
		Status:       model.StatusOpen,
		Upvotes:      n.rng.IntN(maxUpvotes),
		CreatedAt:    now.Format(time.RFC3339Nano),
		Source:       post.Source,
		SourceHandle: post.OriginHandle,
		Lat:          lat,
		Lng:          lng,
	}
}

// Title strips hashtags and cuts the text to TitleLimit runes, appending an
// ellipsis when something was cut.
func Title(text string) string {
	title, cut := textnorm.Truncate(textnorm.Clean(text), TitleLimit)
	if cut {
		return title + Ellipsis
	}
	return title
}

func (n *Normalizer) coordinates() (float64, float64) {
	spot := n.spots[n.rng.IntN(len(n.spots))]
	return spot.Lat + n.jitter(), spot.Lng + n.jitter()
}

func (n *Normalizer) jitter() float64 {
	return (n.rng.Float64()*2 - 1) * MaxJitter
}

// newID returns a UUIDv7 whose millisecond timestamp comes from now and
// whose remaining bits come from the normalizer's stream.
func (n *Normalizer) newID(now time.Time) string {
	var id uuid.UUID
	_, _ = n.src.Read(id[:]) // ChaCha8 reads never fail
	ms := uint64(now.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	id[6] = id[6]&0x0f | 0x70 // version 7
	id[8] = id[8]&0x3f | 0x80 // RFC 4122 variant
	return id.String()
}

func seedBytes(seed uint64) [32]byte {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	binary.LittleEndian.PutUint64(b[8:16], ^seed)
	return b
}
