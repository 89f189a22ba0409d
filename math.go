package frames

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const (
	deg2rad    = math.Pi / 180
	arcsec2rad = deg2rad / 3600
	// trigε keeps sine and cosine denominators away from zero.
	trigε = 1e-9
)

// State6 is a Cartesian position (km) and velocity (km/s).
type State6 [6]float64

// NewState6 returns a state from its position and velocity vectors.
func NewState6(R, V []float64) State6 {
	return State6{R[0], R[1], R[2], V[0], V[1], V[2]}
}

// R returns the position vector.
func (s State6) R() []float64 {
	return []float64{s[0], s[1], s[2]}
}

// V returns the velocity vector.
func (s State6) V() []float64 {
	return []float64{s[3], s[4], s[5]}
}

// Add returns s+o.
func (s State6) Add(o State6) (r State6) {
	for i := range s {
		r[i] = s[i] + o[i]
	}
	return
}

// Sub returns s-o.
func (s State6) Sub(o State6) (r State6) {
	for i := range s {
		r[i] = s[i] - o[i]
	}
	return
}

// EqualWithin returns whether both states are equal within the position (km)
// and velocity (km/s) tolerances.
func (s State6) EqualWithin(o State6, rε, vε float64) bool {
	return floats.EqualApprox(s.R(), o.R(), rε) && floats.EqualApprox(s.V(), o.V(), vε)
}

func (s State6) String() string {
	return fmt.Sprintf("R=[%.6f %.6f %.6f] km V=[%.9f %.9f %.9f] km/s", s[0], s[1], s[2], s[3], s[4], s[5])
}

// Norm returns the norm of a given vector which is supposed to be 3x1.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// dot performs the inner product.
func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Cross performs the cross product.
func Cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// scale returns s*v as a new vector.
func scale(s float64, v []float64) []float64 {
	o := make([]float64, len(v))
	copy(o, v)
	floats.Scale(s, o)
	return o
}

// add returns the sum of the vectors as a new vector.
func add(a []float64, others ...[]float64) []float64 {
	o := make([]float64, len(a))
	copy(o, a)
	for _, b := range others {
		floats.Add(o, b)
	}
	return o
}

// clampTrig pushes a sine or cosine away from zero before it is used as a denominator.
func clampTrig(x float64) float64 {
	if math.Abs(x) < trigε {
		if x < 0 {
			return -trigε
		}
		return trigε
	}
	return x
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a * deg2rad
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a / deg2rad
}
