package frames

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
	// detTolerance is how far from one a rotation determinant may drift.
	detTolerance = 1e-9
)

// R3R1R3 performs a 3-1-3 Euler parameter rotation, i.e. R3(θ3)·R1(θ2)·R3(θ1).
// From Schaub and Junkins (the one in Vallado is wrong... surprinsingly, right? =/)
func R3R1R3(θ1, θ2, θ3 float64) *mat64.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat64.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// R1Dot is the time derivative of R1(x) for the angular rate ẋ.
func R1Dot(x, ẋ float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{0, 0, 0, 0, -s * ẋ, c * ẋ, 0, -c * ẋ, -s * ẋ})
}

// R3Dot is the time derivative of R3(x) for the angular rate ẋ.
func R3Dot(x, ẋ float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{-s * ẋ, c * ẋ, 0, -c * ẋ, -s * ẋ, 0, 0, 0, 0})
}

// skew returns the cross product matrix of ω, such that skew(ω)·v = ω×v.
func skew(ω []float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{0, -ω[2], ω[1], ω[2], 0, -ω[0], -ω[1], ω[0], 0})
}

// identity returns a new 3x3 identity matrix.
func identity() *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// zero33 returns a new 3x3 zero matrix.
func zero33() *mat64.Dense {
	return mat64.NewDense(3, 3, nil)
}

// mul returns the product of the matrices, left to right.
func mul(ms ...*mat64.Dense) *mat64.Dense {
	var out mat64.Dense
	out.Clone(ms[0])
	for _, m := range ms[1:] {
		var tmp mat64.Dense
		tmp.Mul(&out, m)
		out = tmp
	}
	return &out
}

// transpose returns a new matrix which is the transpose of m.
func transpose(m *mat64.Dense) *mat64.Dense {
	var t mat64.Dense
	t.Clone(m.T())
	return &t
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat64.Matrix, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// checkRotation returns an error if m is not a proper rotation.
func checkRotation(m *mat64.Dense) error {
	if det := mat64.Det(m); math.Abs(det-1) > detTolerance {
		return fmt.Errorf("%w: det=%.12f", ErrNotOrthonormal, det)
	}
	return nil
}

// GEO2ECEF converts the provided parameters (in km and radians) to the body fixed vector.
// Note that the first parameter is the altitude, not the radius from the center of the body!
func GEO2ECEF(altitude, latitude, longitude, radius float64) []float64 {
	sLong, cLong := math.Sincos(longitude)
	sLat, cLat := math.Sincos(latitude)
	r := altitude + radius
	return []float64{r * cLat * cLong, r * cLat * sLong, r * sLat}
}
