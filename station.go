package frames

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// Station is a space point fixed on the surface of a body. It owns a private
// body fixed coordinate system used to place itself in MJ2000Eq.
type Station struct {
	name                string
	R, V                []float64 // position and velocity in the body fixed frame
	LatΦ, Longθ         float64   // these are stored in radians!
	Altitude, Elevation float64
	body                *CelestialBody
	fixed               *CoordinateSystem
}

// NewStation returns a new station on the provided body, which must be registered
// in the solar system. Angles in degrees, altitude in km. The Earth orientation
// data is only needed for stations on the Earth.
func NewStation(name string, altitude, elevation, latΦ, longθ float64, body string, solar *SolarSystem, eop EarthOrientationProvider) (*Station, error) {
	b, err := solar.Body(body)
	if err != nil {
		return nil, configErr(name, err)
	}
	fixed := NewCoordinateSystem(name+"Fixed", b.Name(), NewAxes(BodyFixed))
	fixed.SetSolarSystem(solar)
	fixed.SetEarthOrientation(eop)
	if err := fixed.Initialize(); err != nil {
		return nil, err
	}
	R := GEO2ECEF(altitude, latΦ*deg2rad, longθ*deg2rad, b.Radius)
	return &Station{name, R, []float64{0, 0, 0}, latΦ * deg2rad, longθ * deg2rad, altitude, elevation, b, fixed}, nil
}

// Name implements the SpacePoint interface.
func (s *Station) Name() string {
	return s.name
}

// Frame returns the body fixed coordinate system of the station.
func (s *Station) Frame() *CoordinateSystem {
	return s.fixed
}

// Body returns the body the station sits on.
func (s *Station) Body() *CelestialBody {
	return s.body
}

// fixedToSEZ returns the rotation from the body fixed frame to the local
// south, east and zenith axes of the station.
func (s *Station) fixedToSEZ() *mat64.Dense {
	return mul(R2(math.Pi/2-s.LatΦ), R3(s.Longθ))
}

// MJ2000State implements the SpacePoint interface.
func (s *Station) MJ2000State(epoch float64) (State6, error) {
	rel, err := s.fixed.ToMJ2000(epoch, NewState6(s.R, s.V), true, false)
	if err != nil {
		return State6{}, err
	}
	body, err := s.fixed.Origin().MJ2000State(epoch)
	if err != nil {
		return State6{}, err
	}
	return rel.Add(body), nil
}

// MJ2000Acceleration implements the SpacePoint interface by differencing the velocities.
func (s *Station) MJ2000Acceleration(epoch float64) ([]float64, error) {
	before, err := s.MJ2000State(epoch - velocityStep)
	if err != nil {
		return nil, err
	}
	after, err := s.MJ2000State(epoch + velocityStep)
	if err != nil {
		return nil, err
	}
	acc := make([]float64, 3)
	for i := 0; i < 3; i++ {
		acc[i] = (after[i+3] - before[i+3]) / (2 * velocityStep * secondsPerDay)
	}
	return acc, nil
}

// RangeElAz returns the range (in the SEZ frame), elevation and azimuth (in degrees) of a given R vector in the body fixed frame.
func (s *Station) RangeElAz(rFixed []float64) (ρFixed []float64, ρ, el, az float64) {
	ρFixed = make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρFixed[i] = rFixed[i] - s.R[i]
	}
	ρ = Norm(ρFixed)
	rSEZ := MxV33(s.fixedToSEZ(), ρFixed)
	el = math.Asin(rSEZ[2]/ρ) / deg2rad
	az = math.Mod(2*math.Pi+math.Atan2(rSEZ[1], -rSEZ[0]), 2*math.Pi) / deg2rad
	return
}

// Visible returns whether the MJ2000Eq state is above the station elevation mask.
func (s *Station) Visible(epoch float64, state State6, conv *CoordinateConverter, mj2000 *CoordinateSystem) (bool, error) {
	fixed, err := conv.Convert(epoch, state, mj2000, s.fixed)
	if err != nil {
		return false, err
	}
	_, _, el, _ := s.RangeElAz(fixed.R())
	return el >= s.Elevation, nil
}

func (s *Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f km; el = %f deg", s.name, s.LatΦ/deg2rad, s.Longθ/deg2rad, s.Altitude, s.Elevation)
}
