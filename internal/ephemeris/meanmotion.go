// Package ephemeris provides a self-contained, low-precision ephemeris.
//
// MeanMotion propagates J2000 mean orbital elements with a two-term equation
// of the center and treats every orbit as coplanar. Positions are good to a
// few degrees for the outer planets and about a degree for the Sun and Moon:
// enough to name signs and major aspects, not to time them to the hour.
package ephemeris

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// j2000 is 2000-01-01 12:00 TT, approximated as UTC.
var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Signs in ecliptic order from 0°.
var Signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// orbit holds J2000 mean elements: mean longitude L0 (deg), daily motion
// n (deg/day), semi-major axis a (AU), eccentricity e, perihelion longitude w (deg).
type orbit struct {
	L0, n, a, e, w float64
}

var (
	earth = orbit{100.4664, 0.9856474, 1.00000, 0.0167, 102.94}

	planets = map[string]orbit{
		"Mercury": {252.2509, 4.0923344, 0.38710, 0.2056, 77.46},
		"Venus":   {181.9798, 1.6021302, 0.72333, 0.0068, 131.53},
		"Mars":    {355.4330, 0.5240208, 1.52368, 0.0934, 336.04},
		"Jupiter": {34.3515, 0.0830853, 5.20260, 0.0484, 14.75},
		"Saturn":  {50.0775, 0.0334442, 9.55491, 0.0557, 92.43},
		"Uranus":  {314.0550, 0.0117296, 19.21845, 0.0472, 170.96},
		"Neptune": {304.3487, 0.0059811, 30.11039, 0.0086, 44.97},
		"Pluto":   {238.9288, 0.0039757, 39.48169, 0.2488, 224.07},
	}
)

// aspectDef is a major aspect with its exact angle and allowed orb.
type aspectDef struct {
	name  string
	angle float64
	orb   float64
}

var aspectDefs = []aspectDef{
	{codex.AspectConjunction, 0, 8},
	{codex.AspectOpposition, 180, 8},
	{codex.AspectTrine, 120, 6},
	{codex.AspectSquare, 90, 6},
	{codex.AspectSextile, 60, 4},
}

// MeanMotion implements codex.Provider. It is stateless and safe for concurrent use.
type MeanMotion struct{}

// New returns a MeanMotion provider.
func New() MeanMotion {
	return MeanMotion{}
}

// PositionsAndAspects returns geocentric ecliptic longitudes, signs and
// major aspects for instant. loc is accepted for interface compatibility;
// the coplanar model ignores topocentric parallax.
func (MeanMotion) PositionsAndAspects(ctx context.Context, instant time.Time, _ codex.Location) (codex.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return codex.Snapshot{}, err
	}

	longitudes := Longitudes(instant)
	snap := codex.Snapshot{
		Bodies: make([]codex.BodyPosition, 0, len(codex.TrackedBodies)),
	}
	for _, name := range codex.TrackedBodies {
		lon := longitudes[name]
		snap.Bodies = append(snap.Bodies, codex.BodyPosition{
			Name:      name,
			Sign:      SignOf(lon),
			Longitude: lon,
		})
	}
	snap.Aspects = FindAspects(snap.Bodies)

	slog.DebugContext(ctx, config.MsgEphemerisSnap,
		config.LogKeyComponent, config.CompEphemeris,
		config.LogKeyDate, instant.UTC().Format(config.DateFormatRFC3339),
		config.LogKeyCount, len(snap.Aspects),
	)
	return snap, nil
}

// Longitudes computes the geocentric ecliptic longitude of every tracked body.
func Longitudes(instant time.Time) map[string]float64 {
	d := instant.Sub(j2000).Hours() / 24
	out := make(map[string]float64, len(codex.TrackedBodies))

	ex, ey := heliocentric(earth, d)
	out["Sun"] = normalize(deg(math.Atan2(-ey, -ex)))
	out["Moon"] = moonLongitude(d)

	for name, o := range planets {
		px, py := heliocentric(o, d)
		out[name] = normalize(deg(math.Atan2(py-ey, px-ex)))
	}
	return out
}

// FindAspects returns every major aspect between pairs of bodies, pairs taken
// in the given order and the tightest matching aspect kept per pair.
func FindAspects(bodies []codex.BodyPosition) []codex.Aspect {
	var aspects []codex.Aspect
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			sep := separation(bodies[i].Longitude, bodies[j].Longitude)
			for _, a := range aspectDefs {
				if math.Abs(sep-a.angle) <= a.orb {
					aspects = append(aspects, codex.Aspect{
						BodyA: bodies[i].Name,
						BodyB: bodies[j].Name,
						Type:  a.name,
					})
					break
				}
			}
		}
	}
	return aspects
}

// SignOf returns the zodiac sign of an ecliptic longitude.
func SignOf(longitude float64) string {
	idx := int(normalize(longitude)/30) % len(Signs)
	return Signs[idx]
}

func heliocentric(o orbit, d float64) (x, y float64) {
	L := normalize(o.L0 + o.n*d)
	M := rad(L - o.w)
	c := (2*o.e-math.Pow(o.e, 3)/4)*math.Sin(M) + 1.25*o.e*o.e*math.Sin(2*M)
	v := M + c
	r := o.a * (1 - o.e*o.e) / (1 + o.e*math.Cos(v))
	lon := v + rad(o.w)
	return r * math.Cos(lon), r * math.Sin(lon)
}

func moonLongitude(d float64) float64 {
	L := 218.316 + 13.176396*d
	M := rad(134.963 + 13.064993*d)
	return normalize(L + 6.289*math.Sin(M))
}

// separation is the smallest angle between two longitudes, in [0, 180].
func separation(a, b float64) float64 {
	s := math.Abs(normalize(a) - normalize(b))
	if s > 180 {
		s = 360 - s
	}
	return s
}

func normalize(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}

func rad(x float64) float64 { return x * math.Pi / 180 }
func deg(x float64) float64 { return x * 180 / math.Pi }
