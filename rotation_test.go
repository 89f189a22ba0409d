package frames

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestRot313(t *testing.T) {
	var R1R3, R3R1R3m mat64.Dense
	θ1 := math.Pi / 17
	θ2 := math.Pi / 16
	θ3 := math.Pi / 15
	R1R3.Mul(R1(θ2), R3(θ1))
	R3R1R3m.Mul(R3(θ3), &R1R3)
	R3R1R3m.Sub(&R3R1R3m, R3R1R3(θ1, θ2, θ3))
	if !mat64.EqualApprox(&R3R1R3m, mat64.NewDense(3, 3, nil), 1e-15) {
		t.Logf("\n%+v", mat64.Formatted(&R3R1R3m))
		t.Fatal("failed")
	}
}

func TestPQW2ECI(t *testing.T) {
	i := Deg2rad(87.87)
	ω := Deg2rad(53.38)
	Ω := Deg2rad(227.89)
	pqw := R3R1R3(-ω, -i, -Ω)
	Rp := MxV33(pqw, []float64{-466.7639, 11447.0219, 0})
	Re := []float64{6525.368103709379, 6861.531814548294, 6449.118636407358}
	if !vectorsEqualWithin(Re, Rp, 1e-6) {
		t.Fatalf("R conversion failed: %v", Rp)
	}
	Vp := MxV33(pqw, []float64{-5.996222, 4.753601, 0})
	Ve := []float64{4.902278620687254, 5.533139558121602, -1.9757104281719946}
	if !vectorsEqualWithin(Ve, Vp, 1e-9) {
		t.Fatalf("V conversion failed: %v", Vp)
	}
}

func TestRDot(t *testing.T) {
	const h = 1e-6
	x, ẋ := 0.7, 2.5
	for name, pair := range map[string]struct {
		rot    func(float64) *mat64.Dense
		rotDot func(float64, float64) *mat64.Dense
	}{"R1": {R1, R1Dot}, "R3": {R3, R3Dot}} {
		var fd mat64.Dense
		fd.Sub(pair.rot(x+h), pair.rot(x-h))
		fd.Scale(ẋ/(2*h), &fd)
		if !mat64.EqualApprox(&fd, pair.rotDot(x, ẋ), 1e-8) {
			t.Fatalf("%s derivative\n%v", name, mat64.Formatted(pair.rotDot(x, ẋ)))
		}
	}
}

func TestSkew(t *testing.T) {
	ω := []float64{0.1, -0.2, 0.3}
	v := []float64{4, 5, -6}
	if !vectorsEqual(MxV33(skew(ω), v), Cross(ω, v)) {
		t.Fatal("skew(ω)·v != ω×v")
	}
}

func TestCheckRotation(t *testing.T) {
	if err := checkRotation(R3R1R3(0.1, 0.2, 0.3)); err != nil {
		t.Fatalf("valid rotation rejected: %s", err)
	}
	reflection := mat64.NewDense(3, 3, []float64{-1, 0, 0, 0, 1, 0, 0, 0, 1})
	if err := checkRotation(reflection); err == nil {
		t.Fatal("reflection accepted")
	}
}

func TestGEO2ECEF(t *testing.T) {
	r := GEO2ECEF(0, 0, 0, 6378.1363)
	if !vectorsEqual(r, []float64{6378.1363, 0, 0}) {
		t.Fatalf("equator/prime meridian: %v", r)
	}
	r = GEO2ECEF(100, math.Pi/2, 1.2, 6378.1363)
	if !floats.EqualWithinAbs(r[2], 6478.1363, 1e-9) || !floats.EqualWithinAbs(math.Hypot(r[0], r[1]), 0, 1e-9) {
		t.Fatalf("north pole: %v", r)
	}
}
