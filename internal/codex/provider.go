package codex

import (
	"context"
	"time"
)

// Tracked bodies, in the order aspects are searched.
var TrackedBodies = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

// Major aspect types. Anything else reported by a provider is ignored.
const (
	AspectConjunction = "conjunction"
	AspectOpposition  = "opposition"
	AspectTrine       = "trine"
	AspectSquare      = "square"
	AspectSextile     = "sextile"
)

// MajorAspects lists the aspect types the extractor keeps.
var MajorAspects = []string{AspectConjunction, AspectOpposition, AspectTrine, AspectSquare, AspectSextile}

// Location is a geographic reference point in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// ReferenceLocation is the placeholder observer used for every query;
// the engine does not track user locations.
var ReferenceLocation = Location{Latitude: 0, Longitude: 0}

// BodyPosition is the ecliptic placement of one body.
type BodyPosition struct {
	Name      string  `json:"name"`
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
}

// Aspect is an angular relationship between two bodies.
type Aspect struct {
	BodyA string `json:"bodyA"`
	BodyB string `json:"bodyB"`
	Type  string `json:"type"`
}

// Snapshot is what an ephemeris reports for one instant.
type Snapshot struct {
	Bodies  []BodyPosition `json:"bodies"`
	Aspects []Aspect       `json:"aspects"`
}

// Provider computes body positions and aspects.
// Implementations must be safe for concurrent use.
type Provider interface {
	PositionsAndAspects(ctx context.Context, instant time.Time, loc Location) (Snapshot, error)
}
