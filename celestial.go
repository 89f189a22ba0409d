package frames

import (
	"fmt"
	"sort"
	"strings"
)

// RotationDataSource selects where a body's orientation comes from.
type RotationDataSource uint8

const (
	// IAUSimplified uses the IAU rotation elements.
	IAUSimplified RotationDataSource = iota
	// DE405 uses the lunar librations of the DE405 ephemeris.
	DE405
	// DE421 uses the lunar librations of the DE421 ephemeris.
	DE421
	// DE430 uses the lunar librations of the DE430 ephemeris.
	DE430
)

func (s RotationDataSource) String() string {
	switch s {
	case IAUSimplified:
		return "IAUSimplified"
	case DE405:
		return "DE405"
	case DE421:
		return "DE421"
	case DE430:
		return "DE430"
	default:
		return fmt.Sprintf("RotationDataSource(%d)", uint8(s))
	}
}

// usesLibrations returns whether this source reads the ephemeris librations.
func (s RotationDataSource) usesLibrations() bool {
	return s == DE405 || s == DE421 || s == DE430
}

// RotationDataSourceFromString returns the rotation data source from its name.
func RotationDataSourceFromString(name string) (RotationDataSource, error) {
	for _, s := range []RotationDataSource{IAUSimplified, DE405, DE421, DE430} {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown rotation data source '%s'", name)
}

// CelestialBody defines a celestial body.
type CelestialBody struct {
	name   string
	Radius float64
	μ      float64
	J2     float64
	// NutationInterval is how long, in seconds, nutation is held (Earth only).
	NutationInterval float64
	// RotationSource is only consulted for the Moon.
	RotationSource RotationDataSource
	ephem          EphemerisProvider
}

// NewCelestialBody returns a new body. The ephemeris may be attached later by a SolarSystem.
func NewCelestialBody(name string, radius, μ, j2 float64) *CelestialBody {
	return &CelestialBody{name: name, Radius: radius, μ: μ, J2: j2}
}

// Name implements the SpacePoint interface.
func (c *CelestialBody) Name() string {
	return c.name
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c *CelestialBody) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c *CelestialBody) String() string {
	return c.name + " body"
}

// Is returns whether this body has the provided name, ignoring case.
func (c *CelestialBody) Is(name string) bool {
	return strings.EqualFold(c.name, name)
}

// Ephemeris returns the ephemeris provider of this body, which may be nil.
func (c *CelestialBody) Ephemeris() EphemerisProvider {
	return c.ephem
}

// MJ2000State implements the SpacePoint interface.
func (c *CelestialBody) MJ2000State(epoch float64) (State6, error) {
	if c.ephem == nil {
		return State6{}, fmt.Errorf("%w: no ephemeris for %s", ErrMissingProvider, c.name)
	}
	return c.ephem.State(c.name, epoch)
}

// MJ2000Acceleration implements the SpacePoint interface by differencing the ephemeris velocities.
func (c *CelestialBody) MJ2000Acceleration(epoch float64) ([]float64, error) {
	before, err := c.MJ2000State(epoch - velocityStep)
	if err != nil {
		return nil, err
	}
	after, err := c.MJ2000State(epoch + velocityStep)
	if err != nil {
		return nil, err
	}
	acc := make([]float64, 3)
	for i := 0; i < 3; i++ {
		acc[i] = (after[i+3] - before[i+3]) / (2 * velocityStep * secondsPerDay)
	}
	return acc, nil
}

/* Definitions */

// defaultBodies returns new instances of the bodies every solar system starts with.
func defaultBodies() []*CelestialBody {
	earth := NewCelestialBody("Earth", 6378.1363, 3.98600433e5, 1082.6269e-6)
	earth.NutationInterval = 60
	return []*CelestialBody{
		// Sun is our closest star.
		NewCelestialBody("Sun", 695700, 1.32712440017987e11, 0),
		NewCelestialBody("Mercury", 2439.7, 2.2032e4, 0),
		// Venus is poisonous.
		NewCelestialBody("Venus", 6051.8, 3.24858599e5, 0.000027),
		// Earth is home.
		earth,
		NewCelestialBody("Moon", 1738.2, 4.9028005821478e3, 202.7e-6),
		// Mars is the vacation place.
		NewCelestialBody("Mars", 3396.19, 4.28283100e4, 1964e-6),
		// Jupiter is big.
		NewCelestialBody("Jupiter", 71492.0, 1.266865361e8, 0.01475),
		// Saturn floats and that's really cool.
		NewCelestialBody("Saturn", 60268.0, 3.7931208e7, 0.01645),
		// Uranus is no joke.
		NewCelestialBody("Uranus", 25559.0, 5.7939513e6, 0.012),
		NewCelestialBody("Neptune", 24764.0, 6.836529e6, 0.003411),
		// Pluto is not a planet and had that down ranking coming. It should have stayed in its lane.
		NewCelestialBody("Pluto", 1151.0, 9.*1e2, 0),
	}
}

// SolarSystem is the registry of bodies and other space points, looked up by
// name. It shares one ephemeris provider among all its bodies.
type SolarSystem struct {
	ephem  EphemerisProvider
	bodies map[string]*CelestialBody
	points map[string]SpacePoint
}

// NewSolarSystem returns a solar system with the default bodies using the provided ephemeris.
func NewSolarSystem(ephem EphemerisProvider) *SolarSystem {
	s := &SolarSystem{ephem, make(map[string]*CelestialBody), make(map[string]SpacePoint)}
	for _, b := range defaultBodies() {
		s.AddBody(b)
	}
	return s
}

// Ephemeris returns the ephemeris provider shared by the bodies.
func (s *SolarSystem) Ephemeris() EphemerisProvider {
	return s.ephem
}

// AddBody registers a body, replacing any body of the same name.
func (s *SolarSystem) AddBody(b *CelestialBody) {
	b.ephem = s.ephem
	key := strings.ToLower(b.name)
	s.bodies[key] = b
	s.points[key] = b
}

// AddPoint registers a space point which is not a celestial body.
func (s *SolarSystem) AddPoint(p SpacePoint) error {
	key := strings.ToLower(p.Name())
	if _, exists := s.bodies[key]; exists {
		return fmt.Errorf("'%s' is already a celestial body", p.Name())
	}
	s.points[key] = p
	return nil
}

// Body returns the body from its name.
func (s *SolarSystem) Body(name string) (*CelestialBody, error) {
	if b, ok := s.bodies[strings.ToLower(name)]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrUnknownBody, name)
}

// Point returns any registered space point from its name, bodies included.
func (s *SolarSystem) Point(name string) (SpacePoint, error) {
	if p, ok := s.points[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrUnknownBody, name)
}

// Bodies returns the names of the registered bodies, sorted.
func (s *SolarSystem) Bodies() []string {
	names := make([]string, 0, len(s.bodies))
	for _, b := range s.bodies {
		names = append(names, b.name)
	}
	sort.Strings(names)
	return names
}
