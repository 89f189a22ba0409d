package frames

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
)

func TestNutationMeeus(t *testing.T) {
	for _, jde := range []float64{
		julian.CalendarGregorianToJD(1987, 4, 10), // Meeus example 22.a
		JDJ2000,
		julian.CalendarGregorianToJD(2017, 3, 20.6),
		julian.CalendarGregorianToJD(2030, 11, 2.25),
	} {
		T := (jde - JDJ2000) / daysPerJulianCentury
		got := nutationAt(T, IAU1980Nutation())
		Δψ, Δε := nutation.Nutation(jde)
		if !floats.EqualWithinAbs(got.Δψ, Δψ.Rad(), 1e-9) {
			t.Fatalf("Δψ @ %f: %g != %g", jde, got.Δψ, Δψ.Rad())
		}
		if !floats.EqualWithinAbs(got.Δε, Δε.Rad(), 1e-9) {
			t.Fatalf("Δε @ %f: %g != %g", jde, got.Δε, Δε.Rad())
		}
		if !floats.EqualWithinAbs(got.εbar, nutation.MeanObliquity(jde).Rad(), 1e-8) {
			t.Fatalf("mean obliquity @ %f: %g != %g", jde, got.εbar, nutation.MeanObliquity(jde).Rad())
		}
	}
}

func TestNutationExample22a(t *testing.T) {
	// Meeus example 22.a: Δψ = -3.788", Δε = +9.443".
	T := (julian.CalendarGregorianToJD(1987, 4, 10) - JDJ2000) / daysPerJulianCentury
	n := nutationAt(T, IAU1980Nutation())
	if !floats.EqualWithinAbs(n.Δψ/arcsec2rad, -3.788, 0.005) {
		t.Fatalf("Δψ=%f\"", n.Δψ/arcsec2rad)
	}
	if !floats.EqualWithinAbs(n.Δε/arcsec2rad, 9.443, 0.005) {
		t.Fatalf("Δε=%f\"", n.Δε/arcsec2rad)
	}
}

func TestIAU1980NutationCopy(t *testing.T) {
	terms := IAU1980Nutation()
	terms[0].Ψ0 = 0
	if iau1980[0].Ψ0 == 0 {
		t.Fatal("the default series was modified through the copy")
	}
	if len(terms) != 63 {
		t.Fatalf("expected the 63 terms down to 0.0003\", got %d", len(terms))
	}
	// An empty series has no nutation at all.
	if n := nutationAt(0.17, nil); n.Δψ != 0 || n.Δε != 0 {
		t.Fatal("expected no nutation without terms")
	}
}

func TestEquationOfEquinoxes(t *testing.T) {
	n := nutationAngles{Δψ: -3.788 * arcsec2rad, εbar: meanObliquity(0), Ω: 1}
	before := equationOfEquinoxes(n, 2450000)
	if before != n.Δψ*math.Cos(n.εbar) {
		t.Fatal("no Ω terms expected before 1997")
	}
	after := equationOfEquinoxes(n, 2451545)
	exp := before + (0.00264*math.Sin(1)+0.000063*math.Sin(2))*arcsec2rad
	if !floats.EqualWithinAbs(after, exp, 1e-15) {
		t.Fatalf("equation of equinoxes %g != %g", after, exp)
	}
}
