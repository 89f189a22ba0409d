package frames

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// velocityStep is the half width of the central differences on ephemeris positions, in days.
	velocityStep = 30.0 / secondsPerDay
)

// EphemerisProvider supplies body states and orientation data. All epochs are A.1 MJD.
type EphemerisProvider interface {
	// State returns the body state in MJ2000Eq axes about the provider's common center.
	State(body string, epoch float64) (State6, error)
	// CartographicAngles returns the pole right ascension and declination and the
	// prime meridian angle in degrees, and the prime meridian rate in degrees per day.
	CartographicAngles(body string, epoch float64) (α, δ, W, Ẇ float64, err error)
	// LibrationAnglesAndRates returns the lunar 3-1-3 Euler angles in radians and their rates in radians per second.
	LibrationAnglesAndRates(epoch float64) (angles, rates [3]float64, err error)
}

// a1ToJDTDB converts an A.1 epoch to a TDB Julian date. Both A.1 and TT are
// fixed offsets from TAI, so no leap seconds are involved.
func a1ToJDTDB(epoch float64) float64 {
	tt := epoch + (ttTAIOffset-a1TAIOffset)/secondsPerDay
	return tt + tdbMinusTT(tt, JDJan5of1941)/secondsPerDay + JDJan5of1941
}

// IAURotationElements are the linear WGCCRE rotation elements of a body.
type IAURotationElements struct {
	RA0, RARate   float64 // degrees and degrees per Julian century
	Dec0, DecRate float64 // degrees and degrees per Julian century
	W0, WRate     float64 // degrees and degrees per day
}

// At returns the cartographic angles in degrees and the prime meridian rate in degrees per day.
func (e IAURotationElements) At(jdTDB float64) (α, δ, W, Ẇ float64) {
	d := jdTDB - JDJ2000
	T := d / daysPerJulianCentury
	α = e.RA0 + e.RARate*T
	δ = e.Dec0 + e.DecRate*T
	W = math.Mod(e.W0+e.WRate*d, 360)
	if W < 0 {
		W += 360
	}
	return α, δ, W, e.WRate
}

// iauElements is the default table, keyed by lower case body name.
var iauElements = map[string]IAURotationElements{
	"sun":     {286.13, 0, 63.87, 0, 84.176, 14.1844},
	"mercury": {281.0097, -0.0328, 61.4143, -0.0049, 329.5469, 6.1385025},
	"venus":   {272.76, 0, 67.16, 0, 160.20, -1.4813688},
	"earth":   {0, -0.641, 90, -0.557, 190.147, 360.9856235},
	"moon":    {269.9949, 0.0031, 66.5392, 0.0130, 38.3213, 13.17635815},
	"mars":    {317.68143, -0.1061, 52.88650, -0.0609, 176.630, 350.89198226},
	"jupiter": {268.056595, -0.006499, 64.495303, 0.002413, 284.95, 870.536},
	"saturn":  {40.589, -0.036, 83.537, -0.004, 38.90, 810.7939024},
	"uranus":  {257.311, 0, -15.175, 0, 203.81, -501.1600928},
	"neptune": {299.36, 0, 43.46, 0, 253.18, 536.3128492},
	"pluto":   {132.993, 0, -6.163, 0, 302.695, 56.3625225},
}

// cartographic looks up the IAU elements of a body.
func cartographic(body string, epoch float64) (α, δ, W, Ẇ float64, err error) {
	elts, ok := iauElements[strings.ToLower(body)]
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("%w: no IAU rotation elements for '%s'", ErrUnknownBody, body)
	}
	α, δ, W, Ẇ = elts.At(a1ToJDTDB(epoch))
	return
}

// vsop87Index is the planetposition index of each planet.
var vsop87Index = map[string]int{
	"mercury": planetposition.Mercury,
	"venus":   planetposition.Venus,
	"earth":   planetposition.Earth,
	"mars":    planetposition.Mars,
	"jupiter": planetposition.Jupiter,
	"saturn":  planetposition.Saturn,
	"uranus":  planetposition.Uranus,
	"neptune": planetposition.Neptune,
}

// AnalyticEphemeris computes heliocentric states from the VSOP87 theory (Pluto
// and the Moon from Meeus) and orientations from the IAU rotation elements.
// It does not provide lunar librations.
type AnalyticEphemeris struct {
	VSOP87Dir string
	planets   map[string]*planetposition.V87Planet
}

// NewAnalyticEphemeris returns an analytic ephemeris reading the VSOP87 files from the provided directory.
func NewAnalyticEphemeris(vsop87Dir string) *AnalyticEphemeris {
	return &AnalyticEphemeris{vsop87Dir, make(map[string]*planetposition.V87Planet)}
}

// State implements the EphemerisProvider interface. States are heliocentric.
func (e *AnalyticEphemeris) State(body string, epoch float64) (State6, error) {
	name := strings.ToLower(body)
	jde := a1ToJDTDB(epoch)
	before, err := e.position(name, jde-velocityStep)
	if err != nil {
		return State6{}, err
	}
	R, err := e.position(name, jde)
	if err != nil {
		return State6{}, err
	}
	after, err := e.position(name, jde+velocityStep)
	if err != nil {
		return State6{}, err
	}
	V := make([]float64, 3)
	for i := 0; i < 3; i++ {
		V[i] = (after[i] - before[i]) / (2 * velocityStep * secondsPerDay)
	}
	return NewState6(R, V), nil
}

// position returns the heliocentric MJ2000Eq position of the body in km.
func (e *AnalyticEphemeris) position(name string, jde float64) ([]float64, error) {
	switch name {
	case "sun":
		return []float64{0, 0, 0}, nil
	case "pluto":
		l, b, r := pluto.Heliocentric(jde)
		return eclipticJ2000ToMJ2000(l.Rad(), b.Rad(), r*AU), nil
	case "moon":
		earth, err := e.position("earth", jde)
		if err != nil {
			return nil, err
		}
		λ, β, Δ := moonposition.Position(jde)
		εbar := nutation.MeanObliquity(jde).Rad()
		rMOD := MxV33(R1(-εbar), spherical(λ.Rad(), β.Rad(), Δ))
		T := (jde - JDJ2000) / daysPerJulianCentury
		rJ2000 := MxV33(precession(T).T(), rMOD)
		return add(earth, rJ2000), nil
	}
	planet, err := e.planet(name)
	if err != nil {
		return nil, err
	}
	l, b, r := planet.Position2000(jde)
	return eclipticJ2000ToMJ2000(l.Rad(), b.Rad(), r*AU), nil
}

// planet loads the VSOP87 data of a planet on first use.
func (e *AnalyticEphemeris) planet(name string) (*planetposition.V87Planet, error) {
	if p, ok := e.planets[name]; ok {
		return p, nil
	}
	idx, ok := vsop87Index[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' not in the analytic ephemeris", ErrUnknownBody, name)
	}
	if e.VSOP87Dir == "" {
		return nil, fmt.Errorf("%w: VSOP87 directory not set", ErrMissingProvider)
	}
	p, err := planetposition.LoadPlanetPath(idx, e.VSOP87Dir)
	if err != nil {
		return nil, fmt.Errorf("could not load VSOP87 data for %s: %s", name, err)
	}
	e.planets[name] = p
	return p, nil
}

// CartographicAngles implements the EphemerisProvider interface.
func (e *AnalyticEphemeris) CartographicAngles(body string, epoch float64) (α, δ, W, Ẇ float64, err error) {
	return cartographic(body, epoch)
}

// LibrationAnglesAndRates implements the EphemerisProvider interface.
func (e *AnalyticEphemeris) LibrationAnglesAndRates(epoch float64) (angles, rates [3]float64, err error) {
	err = ErrNoLibrationData
	return
}

// spherical returns the Cartesian vector from a longitude, latitude and radius.
func spherical(l, b, r float64) []float64 {
	sB, cB := math.Sincos(b)
	sL, cL := math.Sincos(l)
	return []float64{r * cB * cL, r * cB * sL, r * sB}
}

// eclipticJ2000ToMJ2000 rotates a J2000 ecliptic position onto the J2000 equator.
func eclipticJ2000ToMJ2000(l, b, r float64) []float64 {
	return MxV33(R1(-meanObliquity(0)), spherical(l, b, r))
}

// SpacePoint is anything with an MJ2000Eq state: bodies, spacecraft, stations.
type SpacePoint interface {
	Name() string
	MJ2000State(epoch float64) (State6, error)
	MJ2000Acceleration(epoch float64) ([]float64, error)
}

// FixedPoint is a space point with a constant MJ2000Eq state.
type FixedPoint struct {
	name  string
	state State6
}

// NewFixedPoint returns a new fixed point.
func NewFixedPoint(name string, state State6) *FixedPoint {
	return &FixedPoint{name, state}
}

// Name implements the SpacePoint interface.
func (p *FixedPoint) Name() string {
	return p.name
}

// MJ2000State implements the SpacePoint interface.
func (p *FixedPoint) MJ2000State(epoch float64) (State6, error) {
	return p.state, nil
}

// MJ2000Acceleration implements the SpacePoint interface.
func (p *FixedPoint) MJ2000Acceleration(epoch float64) ([]float64, error) {
	return []float64{0, 0, 0}, nil
}
