package frames

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestCross(t *testing.T) {
	i := []float64{1, 0, 0}
	j := []float64{0, 1, 0}
	k := []float64{0, 0, 1}
	if !vectorsEqual(Cross(i, j), k) {
		t.Fatal("i x j != k")
	}
	if !vectorsEqual(Cross(j, k), i) {
		t.Fatal("j x k != i")
	}
	if !vectorsEqual(Cross([]float64{2, 3, 4}, []float64{5, 6, 7}), []float64{-3, 6, -3}) {
		t.Fatal("cross fail")
	}
	// From Vallado
	if !vectorsEqualWithin(Cross([]float64{6524.834, 6862.875, 6448.296}, []float64{4.901327, 5.533756, -1.976341}), []float64{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}, 1e-6) {
		t.Fatal("cross fail")
	}
}

func TestAngles(t *testing.T) {
	for i := 0.0; i <= 360; i += 0.5 {
		if ok, err := anglesEqual(i, Rad2deg(Deg2rad(i))); !ok {
			t.Fatalf("incorrect conversion for %3.2f: %s", i, err)
		}
		if r := Deg2rad(i); r < 0 || r >= 2*math.Pi {
			t.Fatalf("%f deg out of [0, 2π): %f", i, r)
		}
	}
	if Rad2deg(Deg2rad(360)) != 0 {
		t.Fatal("360 deg should wrap to zero")
	}
	if ok, _ := anglesEqual(1, Rad2deg(Deg2rad(-359.))); !ok {
		t.Fatal("incorrect conversion for -359")
	}
	if ok, _ := anglesEqual(180, Rad2deg(Deg2rad(-180.))); !ok {
		t.Fatal("incorrect conversion for -180")
	}
	if !floats.EqualWithinAbs(Deg2rad(30)/math.Pi, 1/6., 1e-12) {
		t.Fatal("30 deg != π/6")
	}
}

func TestUnitNorm(t *testing.T) {
	v := []float64{3, 4, 12}
	if Norm(v) != 13 {
		t.Fatalf("|v|=%f", Norm(v))
	}
	if !floats.EqualWithinAbs(Norm(unit(v)), 1, 1e-15) {
		t.Fatal("unit vector is not of unit norm")
	}
	if !vectorsEqual(unit([]float64{0, 0, 0}), []float64{0, 0, 0}) {
		t.Fatal("unit of the zero vector should be zero")
	}
}

func TestState6(t *testing.T) {
	s := NewState6([]float64{1, 2, 3}, []float64{4, 5, 6})
	o := State6{1, 1, 1, 1, 1, 1}
	if s.Add(o).Sub(o) != s {
		t.Fatal("add then sub changed the state")
	}
	if !vectorsEqual(s.R(), []float64{1, 2, 3}) || !vectorsEqual(s.V(), []float64{4, 5, 6}) {
		t.Fatalf("R/V split: %s", s)
	}
	if !s.EqualWithin(s.Add(State6{1e-7, 0, 0, 0, 0, 1e-10}), 1e-6, 1e-9) {
		t.Fatal("states should be equal within tolerance")
	}
	if s.EqualWithin(s.Add(State6{1e-3, 0, 0, 0, 0, 0}), 1e-6, 1e-9) {
		t.Fatal("states should differ")
	}
}

func TestScaleAndAdd(t *testing.T) {
	v := []float64{1, -2, 3}
	if got := scale(-2, v); !vectorsEqual(got, []float64{-2, 4, -6}) {
		t.Fatalf("scale: %v", got)
	}
	if !vectorsEqual(v, []float64{1, -2, 3}) {
		t.Fatalf("scale modified its input: %v", v)
	}
	if got := add(v, scale(-1, v), []float64{1, 1, 1}); !vectorsEqual(got, []float64{1, 1, 1}) {
		t.Fatalf("add: %v", got)
	}
}

func TestClampTrig(t *testing.T) {
	for _, tc := range []struct{ in, out float64 }{
		{0, trigε}, {1e-12, trigε}, {-1e-12, -trigε}, {0.5, 0.5}, {-0.5, -0.5},
	} {
		if got := clampTrig(tc.in); got != tc.out {
			t.Fatalf("clampTrig(%g)=%g, want %g", tc.in, got, tc.out)
		}
	}
}
