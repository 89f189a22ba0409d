package frames

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// earthRotationRateITRF is the nominal Earth rotation rate of the CIO based reduction, in radians per second.
const earthRotationRateITRF = 7.292115146706979e-5

// earthRotationAngle returns the IAU 2000 Earth rotation angle in radians.
func earthRotationAngle(jdUT1 float64) float64 {
	θ := 2 * math.Pi * math.Mod(0.7790572732640+1.00273781191135448*(jdUT1-JDJ2000), 1)
	if θ < 0 {
		θ += 2 * math.Pi
	}
	return θ
}

// celestialToIntermediate returns the transpose of the CIP matrix for X and Y in radians.
func celestialToIntermediate(X, Y float64) *mat64.Dense {
	b := 1 / (1 + math.Sqrt(1-X*X-Y*Y))
	return mat64.NewDense(3, 3, []float64{
		1 - b*X*X, -b * X * Y, X,
		-b * X * Y, 1 - b*Y*Y, Y,
		-X, -Y, 1 - b*(X*X+Y*Y),
	})
}

// itrf computes the CIO based rotation from the ITRF to MJ2000Eq:
// R = Cᵗ·R3(s)·R3(-θ)·W with W = R3(-s')·R2(xp)·R1(yp).
func (a *AxisSystem) itrf(epoch float64) (rot, rotDot *mat64.Dense, err error) {
	et, err := newEarthTimes(a.conv, epoch, true)
	if err != nil {
		return nil, nil, err
	}
	X, Y, s, err := a.cip.CIP(et.jdTT)
	if err != nil {
		return nil, nil, err
	}
	xp, yp, err := a.eop.PolarMotion(et.mjdUTC)
	if err != nil {
		return nil, nil, err
	}
	lod, err := a.eop.LengthOfDay(et.mjdUTC)
	if err != nil {
		return nil, nil, err
	}
	T := (et.jdTT - JDJ2000) / daysPerJulianCentury
	sPrime := -0.000047 * T * arcsec2rad
	W := mul(R3(-sPrime), R2(xp*arcsec2rad), R1(yp*arcsec2rad))
	Q := mul(celestialToIntermediate(X*arcsec2rad, Y*arcsec2rad), R3(s*arcsec2rad))
	θ := earthRotationAngle(et.jdUT1)
	ω := earthRotationRateITRF * (1 - lod/secondsPerDay)
	rot = mul(Q, R3(-θ), W)
	rotDot = mul(Q, R3(-θ), skew([]float64{0, 0, ω}), W)
	return rot, rotDot, nil
}
