package frames

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	keplerε       = 1e-13                        // radians
)

// Orbit is a space point on a two body conic about a celestial body. The
// elements are osculating at Epoch (A.1 MJD) in MJ2000Eq axes about the origin.
type Orbit struct {
	name             string
	a, e, i, Ω, ω, ν float64
	Origin           *CelestialBody
	Epoch            float64
}

// NewOrbitFromOE creates an orbit from the orbital elements.
// WARNING: Angles must be in degrees not radian.
func NewOrbitFromOE(name string, a, e, i, Ω, ω, ν float64, c *CelestialBody, epoch float64) *Orbit {
	// Making an approximation for circular and equatorial orbits.
	if e < eccentricityε {
		e = eccentricityε
	}
	if i < angleε {
		i = angleε
	}
	return &Orbit{name, a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), Deg2rad(ν), c, epoch}
}

// NewOrbitFromRV returns orbital elements from the R and V vectors.
func NewOrbitFromRV(name string, R, V []float64, c *CelestialBody, epoch float64) *Orbit {
	// From Vallado's RV2COE, page 113
	hVec := Cross(R, V)
	n := Cross([]float64{0, 0, 1}, hVec)
	v := Norm(V)
	r := Norm(R)
	ξ := (v*v)/2 - c.μ/r
	a := -c.μ / (2 * ξ)
	eVec := make([]float64, 3, 3)
	for i := 0; i < 3; i++ {
		eVec[i] = ((v*v-c.μ/r)*R[i] - dot(R, V)*V[i]) / c.μ
	}
	e := Norm(eVec)
	i := math.Acos(hVec[2] / Norm(hVec))
	ω := math.Acos(dot(n, eVec) / (Norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	Ω := math.Acos(n[0] / Norm(n))
	if math.IsNaN(Ω) {
		Ω = 0
	}
	if n[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := dot(eVec, R) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		// Welcome to the edge case which took about 1.5 hours of my time.
		cosν = math.Copysign(1, cosν) // GTFO NaN!
	}
	ν := math.Acos(cosν)
	if dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}
	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)
	return &Orbit{name, a, e, i, Ω, ω, ν, c, epoch}
}

// Name implements the SpacePoint interface.
func (o *Orbit) Name() string {
	return o.name
}

// Elements returns a, e, i, Ω, ω and ν at the orbit epoch (angles in radians).
func (o *Orbit) Elements() (a, e, i, Ω, ω, ν float64) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.ν
}

// SemiParameter returns the semi parameter.
func (o *Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// MeanMotion returns the mean motion in radians per second.
func (o *Orbit) MeanMotion() float64 {
	return math.Sqrt(o.Origin.μ / math.Pow(o.a, 3))
}

// Period returns the period of this orbit in seconds.
func (o *Orbit) Period() float64 {
	return 2 * math.Pi / o.MeanMotion()
}

// TrueAnomalyAt propagates the true anomaly to the A.1 epoch with Kepler's equation.
func (o *Orbit) TrueAnomalyAt(epoch float64) (float64, error) {
	if o.e >= 1 {
		return 0, errors.New("only elliptical orbits may be propagated")
	}
	sinν, cosν := math.Sincos(o.ν)
	E0 := math.Atan2(math.Sqrt(1-o.e*o.e)*sinν, o.e+cosν)
	M := E0 - o.e*math.Sin(E0) + o.MeanMotion()*(epoch-o.Epoch)*secondsPerDay
	M = math.Mod(M, 2*math.Pi)
	E := M
	for iter := 0; iter < 50; iter++ {
		δE := (E - o.e*math.Sin(E) - M) / (1 - o.e*math.Cos(E))
		E -= δE
		if math.Abs(δE) < keplerε {
			sinE, cosE := math.Sincos(E)
			return math.Atan2(math.Sqrt(1-o.e*o.e)*sinE, cosE-o.e), nil
		}
	}
	return 0, fmt.Errorf("Kepler's equation did not converge for M=%f e=%f", M, o.e)
}

// RV returns the position and velocity about the origin for the true anomaly.
func (o *Orbit) RV(ν float64) ([]float64, []float64) {
	p := o.SemiParameter()
	// Support special orbits.
	ω := o.ω
	Ω := o.Ω
	if o.e < eccentricityε {
		ω = 0
		if o.i < angleε {
			// Circular equatorial
			Ω = 0
			ν = math.Mod(o.ω+o.Ω+ν, 2*math.Pi)
		} else {
			// Circular inclined
			ν = math.Mod(ν+o.ω, 2*math.Pi)
		}
	} else if o.i < angleε {
		Ω = 0
		ω = math.Mod(o.ω+o.Ω, 2*math.Pi)
	}
	sinν, cosν := math.Sincos(ν)
	pqw := R3R1R3(-ω, -o.i, -Ω)
	R := MxV33(pqw, []float64{p * cosν / (1 + o.e*cosν), p * sinν / (1 + o.e*cosν), 0})
	V := MxV33(pqw, []float64{-math.Sqrt(o.Origin.μ/p) * sinν, math.Sqrt(o.Origin.μ/p) * (o.e + cosν), 0})
	return R, V
}

// MJ2000State implements the SpacePoint interface.
func (o *Orbit) MJ2000State(epoch float64) (State6, error) {
	ν, err := o.TrueAnomalyAt(epoch)
	if err != nil {
		return State6{}, err
	}
	R, V := o.RV(ν)
	origin, err := o.Origin.MJ2000State(epoch)
	if err != nil {
		return State6{}, err
	}
	return NewState6(R, V).Add(origin), nil
}

// MJ2000Acceleration implements the SpacePoint interface: two body gravity plus
// the acceleration of the origin.
func (o *Orbit) MJ2000Acceleration(epoch float64) ([]float64, error) {
	ν, err := o.TrueAnomalyAt(epoch)
	if err != nil {
		return nil, err
	}
	R, _ := o.RV(ν)
	r := Norm(R)
	origin, err := o.Origin.MJ2000Acceleration(epoch)
	if err != nil {
		return nil, err
	}
	return add(scale(-o.Origin.μ/(r*r*r), R), origin), nil
}

// String implements the stringer interface.
func (o *Orbit) String() string {
	return fmt.Sprintf("%s: a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f about %s", o.name, o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν), o.Origin.Name())
}
