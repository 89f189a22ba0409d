package frames

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// precession returns the IAU 1976 precession matrix P, from MJ2000Eq to the mean
// equator and equinox of date, at T Julian centuries (TDB) from J2000.
func precession(T float64) *mat64.Dense {
	T2, T3 := T*T, T*T*T
	ζ := (2306.2181*T + 0.30188*T2 + 0.017998*T3) * arcsec2rad
	θ := (2004.3109*T - 0.42665*T2 - 0.041833*T3) * arcsec2rad
	z := (2306.2181*T + 1.09468*T2 + 0.018203*T3) * arcsec2rad
	return mul(R3(-z), R2(θ), R3(-ζ))
}

// nutationMatrix returns N, from the mean to the true equator and equinox of date.
func nutationMatrix(n nutationAngles) *mat64.Dense {
	return mul(R1(-n.ε()), R3(-n.Δψ), R1(n.εbar))
}

// gmst82 returns the IAU 1982 Greenwich mean sidereal time in radians for T Julian centuries of UT1.
func gmst82(tUT1 float64) float64 {
	θ := 67310.54841 + (876600*3600+8640184.812866)*tUT1 + 0.093104*tUT1*tUT1 - 6.2e-6*tUT1*tUT1*tUT1
	θ = math.Mod(θ, secondsPerDay) * 2 * math.Pi / secondsPerDay
	if θ < 0 {
		θ += 2 * math.Pi
	}
	return θ
}

// apparentSiderealTime returns the Greenwich apparent sidereal time in radians.
func apparentSiderealTime(tUT1, jdTT float64, n nutationAngles) float64 {
	θ := math.Mod(gmst82(tUT1)+equationOfEquinoxes(n, jdTT), 2*math.Pi)
	if θ < 0 {
		θ += 2 * math.Pi
	}
	return θ
}

// polarMotion returns PM for the pole offsets in radians.
func polarMotion(xp, yp float64) *mat64.Dense {
	return mul(R2(-xp), R1(-yp))
}

// heldNutation keeps the nutation angles for a while, since they vary slowly.
type heldNutation struct {
	valid    bool
	epoch    float64 // A.1 MJD of the evaluation
	angles   nutationAngles
	interval float64 // seconds
}

// at returns the nutation angles at the given epoch, reusing the held ones when
// the epoch has not moved by more than the interval.
func (h *heldNutation) at(epoch, T float64, terms []NutationTerm, force bool) nutationAngles {
	if !force && h.valid && math.Abs(epoch-h.epoch)*secondsPerDay <= h.interval {
		return h.angles
	}
	h.angles = nutationAt(T, terms)
	h.epoch = epoch
	h.valid = true
	return h.angles
}

// earthTimes are the time arguments of the Earth reduction for one epoch.
type earthTimes struct {
	mjdUTC float64 // standard MJD, used for the EOP lookups
	jdTT   float64
	jdUT1  float64
	tTDB   float64 // Julian centuries
	tUT1   float64 // Julian centuries
}

// newEarthTimes converts an A.1 epoch into the Earth reduction arguments. UT1
// is only computed when withUT1 is set, as it requires Earth orientation data.
func newEarthTimes(conv EpochConverter, epoch float64, withUT1 bool) (et earthTimes, err error) {
	tt, err := conv.Convert(epoch, A1, TT, JDJan5of1941)
	if err != nil {
		return
	}
	tdb, err := conv.Convert(epoch, A1, TDB, JDJan5of1941)
	if err != nil {
		return
	}
	et.jdTT = tt + JDJan5of1941
	et.tTDB = JulianCenturies(tdb, JDJan5of1941)
	if !withUT1 {
		return
	}
	utc, err := conv.Convert(epoch, A1, UTC, JDJan5of1941)
	if err != nil {
		return
	}
	ut1, err := conv.Convert(epoch, A1, UT1, JDJan5of1941)
	if err != nil {
		return
	}
	et.mjdUTC = utc + JDJan5of1941 - JDNov17of1858
	et.jdUT1 = ut1 + JDJan5of1941
	et.tUT1 = JulianCenturies(ut1, JDJan5of1941)
	return
}

// fk5Equator returns N·P, from MJ2000Eq to the true equator of date.
func fk5Equator(et earthTimes, nut *heldNutation, epoch float64, terms []NutationTerm, force bool) (*mat64.Dense, nutationAngles) {
	n := nut.at(epoch, et.tTDB, terms, force)
	return mul(nutationMatrix(n), precession(et.tTDB)), n
}

// fk5BodyFixed returns PM·ST·N·P (MJ2000Eq to Earth fixed) and its time derivative PM·STdot·N·P.
func fk5BodyFixed(et earthTimes, nut *heldNutation, epoch float64, eop EarthOrientationProvider, force bool) (A, Adot *mat64.Dense, err error) {
	xp, yp, err := eop.PolarMotion(et.mjdUTC)
	if err != nil {
		return nil, nil, err
	}
	NP, n := fk5Equator(et, nut, epoch, eop.NutationCoefficients(), force)
	θ := apparentSiderealTime(et.tUT1, et.jdTT, n)
	PM := polarMotion(xp*arcsec2rad, yp*arcsec2rad)
	A = mul(PM, R3(θ), NP)
	Adot = mul(PM, R3Dot(θ, EarthRotationRate), NP)
	return A, Adot, nil
}
