package frames

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestTimeScaleFromString(t *testing.T) {
	for scale, name := range timeScaleNames {
		got, err := TimeScaleFromString(name)
		if err != nil || got != scale {
			t.Fatalf("%s: got %s (%v)", name, got, err)
		}
	}
	if s, err := TimeScaleFromString("tdb"); err != nil || s != TDB {
		t.Fatal("time scale names should be case insensitive")
	}
	if _, err := TimeScaleFromString("GPS"); err == nil {
		t.Fatal("GPS is not supported")
	}
}

func TestFixedOffsets(t *testing.T) {
	conv := NewTimeConverter(nil)
	epoch := 21545.0
	for _, tc := range []struct {
		to     TimeScale
		offset float64 // seconds to add to A.1
	}{
		{A1, 0},
		{TAI, -a1TAIOffset},
		{TT, ttTAIOffset - a1TAIOffset},
	} {
		got, err := conv.Convert(epoch, A1, tc.to, JDJan5of1941)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbs((got-epoch)*secondsPerDay, tc.offset, 1e-6) {
			t.Fatalf("A1->%s: %f s, want %f s", tc.to, (got-epoch)*secondsPerDay, tc.offset)
		}
	}
}

func TestLeapSeconds(t *testing.T) {
	for _, tc := range []struct{ mjd, leap float64 }{
		{41317, 10}, {51544.5, 32}, {53736, 33}, {57753.9, 36}, {60000, 37},
	} {
		leap, err := TAIMinusUTC(tc.mjd)
		if err != nil {
			t.Fatal(err)
		}
		if leap != tc.leap {
			t.Fatalf("TAI-UTC @ %f = %f, want %f", tc.mjd, leap, tc.leap)
		}
	}
	if _, err := TAIMinusUTC(40000); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range before 1972, got %v", err)
	}
	conv := NewTimeConverter(nil)
	if _, err := conv.Convert(10000, UTC, A1, JDJan5of1941); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range before 1972, got %v", err)
	}
}

func TestRoundTrips(t *testing.T) {
	conv := NewTimeConverter(testEOP())
	scales := []TimeScale{A1, TAI, UTC, UT1, TT, TDB}
	for _, epoch := range []float64{21545.0, 25000.123, 30000.9} {
		for _, from := range scales {
			for _, to := range scales {
				out, err := conv.Convert(epoch, from, to, JDJan5of1941)
				if err != nil {
					t.Fatalf("%s->%s: %s", from, to, err)
				}
				back, err := conv.Convert(out, to, from, JDJan5of1941)
				if err != nil {
					t.Fatalf("%s->%s: %s", to, from, err)
				}
				if !floats.EqualWithinAbs((back-epoch)*secondsPerDay, 0, 1e-5) {
					t.Fatalf("%s->%s->%s @ %f: off by %g s", from, to, from, epoch, (back-epoch)*secondsPerDay)
				}
			}
		}
	}
}

func TestUT1(t *testing.T) {
	eop := testEOP()
	conv := NewTimeConverter(eop)
	utc := 21545.0
	ut1, err := conv.Convert(utc, UTC, UT1, JDJan5of1941)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs((ut1-utc)*secondsPerDay, eop.Ut1Utc, 1e-5) {
		t.Fatalf("UT1-UTC=%f s", (ut1-utc)*secondsPerDay)
	}
	if _, err := NewTimeConverter(nil).Convert(utc, UTC, UT1, JDJan5of1941); !errors.Is(err, ErrMissingProvider) {
		t.Fatalf("expected missing provider, got %v", err)
	}
}

func TestTDB(t *testing.T) {
	conv := NewTimeConverter(nil)
	for epoch := 20000.0; epoch < 30000; epoch += 365.25 {
		tt, _ := conv.Convert(epoch, A1, TT, JDJan5of1941)
		tdb, _ := conv.Convert(epoch, A1, TDB, JDJan5of1941)
		if δ := math.Abs(tdb-tt) * secondsPerDay; δ > 0.002 {
			t.Fatalf("|TDB-TT|=%f s @ %f", δ, epoch)
		}
	}
}

func TestEpochFromTime(t *testing.T) {
	conv := NewTimeConverter(nil)
	dt := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	epoch, err := conv.EpochFromTime(dt)
	if err != nil {
		t.Fatal(err)
	}
	exp := JDJ2000 - JDJan5of1941 + (32+a1TAIOffset)/secondsPerDay
	if !floats.EqualWithinAbs(epoch, exp, 1e-8) {
		t.Fatalf("epoch=%.10f, want %.10f", epoch, exp)
	}
	back, err := conv.TimeFromEpoch(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if δ := back.Sub(dt); δ > time.Millisecond || δ < -time.Millisecond {
		t.Fatalf("round trip off by %s", δ)
	}
}

func TestJulianCenturies(t *testing.T) {
	if JulianCenturies(21545, JDJan5of1941) != 0 {
		t.Fatal("J2000 should be zero centuries")
	}
	if !floats.EqualWithinAbs(JulianCenturies(21545+36525, JDJan5of1941), 1, 1e-15) {
		t.Fatal("one century off")
	}
}
