package frames

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const eps = 1e-9

func floatEqual(a, b float64) (bool, error) {
	if !floats.EqualWithinAbs(a, b, eps) {
		return false, fmt.Errorf("difference of %3.10f", math.Abs(a-b))
	}
	return true, nil
}

func vectorsEqual(a, b []float64) bool {
	return vectorsEqualWithin(a, b, eps)
}

func vectorsEqualWithin(a, b []float64, ε float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], ε) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in degrees are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff < 1e-6 || math.Abs(diff-360) < 1e-6 {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f deg", diff)
}

func isOrthonormal(m mat64.Matrix) bool {
	var mtm mat64.Dense
	mtm.Mul(m.T(), m)
	return mat64.EqualApprox(&mtm, identity(), 1e-12) && math.Abs(mat64.Det(m)-1) < 1e-12
}

// fakeEphemeris moves every body in a straight line from its state at the J2000 epoch.
type fakeEphemeris struct {
	states     map[string]State6
	angles     map[string][4]float64 // α, δ, W and Ẇ overrides in degrees and degrees per day
	librations bool
	calls      int
}

func newFakeEphemeris() *fakeEphemeris {
	earth := State6{AU, 0, 0, 0, 29.78, 0}
	return &fakeEphemeris{states: map[string]State6{
		"sun":   {},
		"earth": earth,
		"moon":  earth.Add(State6{384400, 0, 0, 0, 1.022, 0}),
		"mars":  {0, 1.52 * AU, 0, -24.07, 0, 0.1},
	}}
}

func (f *fakeEphemeris) State(body string, epoch float64) (State6, error) {
	f.calls++
	s, ok := f.states[strings.ToLower(body)]
	if !ok {
		return State6{}, fmt.Errorf("%w: %s", ErrUnknownBody, body)
	}
	dt := (epoch - J2000Epoch) * secondsPerDay
	for i := 0; i < 3; i++ {
		s[i] += s[i+3] * dt
	}
	return s, nil
}

func (f *fakeEphemeris) CartographicAngles(body string, epoch float64) (α, δ, W, Ẇ float64, err error) {
	if e, ok := f.angles[strings.ToLower(body)]; ok {
		return e[0], e[1], e[2], e[3], nil
	}
	return cartographic(body, epoch)
}

// Lunar rates in radians per second.
var fakeLibrationRates = [3]float64{-1.07e-8, 1e-10, 2.6617e-6}

func (f *fakeEphemeris) LibrationAnglesAndRates(epoch float64) (angles, rates [3]float64, err error) {
	if !f.librations {
		err = ErrNoLibrationData
		return
	}
	dt := (epoch - J2000Epoch) * secondsPerDay
	base := [3]float64{0.05, 0.4, 1.2}
	for i := 0; i < 3; i++ {
		angles[i] = base[i] + fakeLibrationRates[i]*dt
	}
	return angles, fakeLibrationRates, nil
}

func testEOP() *ConstantEOP {
	return NewConstantEOP(0.3554, 0.043, 0.377, 0.0015)
}

// testFrame returns an initialized coordinate system, failing the test otherwise.
func testFrame(t *testing.T, name, origin string, axes *AxisSystem, solar *SolarSystem) *CoordinateSystem {
	t.Helper()
	cs := NewCoordinateSystem(name, origin, axes)
	cs.SetSolarSystem(solar)
	cs.SetEarthOrientation(testEOP())
	cs.SetCIPProvider(NewSeriesCIP())
	if err := cs.Initialize(); err != nil {
		t.Fatalf("%s: %s", name, err)
	}
	return cs
}

// rotationAt returns a copy of the forced rotation and derivative at the epoch.
func rotationAt(t *testing.T, a *AxisSystem, epoch float64) (rot, rotDot *mat64.Dense) {
	t.Helper()
	r, rd, err := a.ComputeRotation(epoch, true)
	if err != nil {
		t.Fatalf("%s @ %f: %s", a, epoch, err)
	}
	return mat64.DenseCopyOf(r), mat64.DenseCopyOf(rd)
}

// derivativeError returns the largest difference between the rotation
// derivative and a central difference of step h seconds.
func derivativeError(t *testing.T, a *AxisSystem, epoch, h float64) (ε float64) {
	t.Helper()
	before, _ := rotationAt(t, a, epoch-h/secondsPerDay)
	after, _ := rotationAt(t, a, epoch+h/secondsPerDay)
	_, rotDot := rotationAt(t, a, epoch)
	var fd mat64.Dense
	fd.Sub(after, before)
	fd.Scale(1/(2*h), &fd)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ε = math.Max(ε, math.Abs(fd.At(i, j)-rotDot.At(i, j)))
		}
	}
	return ε
}

// checkDerivative compares the rotation derivative with central differences of
// steps h and h/4 seconds. The finer step must be within ε and closer than the
// coarser one.
func checkDerivative(t *testing.T, a *AxisSystem, epoch, h, ε float64) {
	t.Helper()
	coarse := derivativeError(t, a, epoch, h)
	fine := derivativeError(t, a, epoch, h/4)
	if fine > ε || fine >= coarse {
		t.Fatalf("%s derivative mismatch: %g with a %g s step, %g with a %g s step", a, coarse, h, fine, h/4)
	}
}

// addTestStation adds the Canberra station on the Earth to the solar system.
func addTestStation(t *testing.T, solar *SolarSystem) *Station {
	t.Helper()
	st, err := NewStation("Canberra", 0.691750, 10, -35.401389, 148.981667, "Earth", solar, testEOP())
	if err != nil {
		t.Fatal(err)
	}
	if err := solar.AddPoint(st); err != nil {
		t.Fatal(err)
	}
	return st
}
