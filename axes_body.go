package frames

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// bodyInertialEpoch is the A.1 epoch at which BodyInertial axes freeze the body equator.
const bodyInertialEpoch = 21545.0

// equator computes the true equator axes of the origin body.
func (a *AxisSystem) equator(epoch float64, force bool) (rot, rotDot *mat64.Dense, err error) {
	switch {
	case a.originIs("Earth"):
		et, err := newEarthTimes(a.conv, epoch, false)
		if err != nil {
			return nil, nil, err
		}
		a.nut.interval = a.UpdateInterval()
		NP, _ := fk5Equator(et, &a.nut, epoch, a.eop.NutationCoefficients(), force)
		return transpose(NP), zero33(), nil
	case a.originIs("Moon") && a.origin.RotationSource.usesLibrations():
		angles, _, err := a.origin.Ephemeris().LibrationAnglesAndRates(epoch)
		if err != nil {
			return nil, nil, err
		}
		return transpose(mul(R1(angles[1]), R3(angles[0]))), zero33(), nil
	}
	α, δ, _, _, err := a.origin.Ephemeris().CartographicAngles(a.origin.Name(), epoch)
	if err != nil {
		return nil, nil, err
	}
	return iauEquator(α*deg2rad, δ*deg2rad), zero33(), nil
}

// bodyFixed computes the axes rotating with the origin body.
func (a *AxisSystem) bodyFixed(epoch float64, force bool) (rot, rotDot *mat64.Dense, err error) {
	switch {
	case a.originIs("Earth"):
		et, err := newEarthTimes(a.conv, epoch, true)
		if err != nil {
			return nil, nil, err
		}
		a.nut.interval = a.UpdateInterval()
		A, Adot, err := fk5BodyFixed(et, &a.nut, epoch, a.eop, force)
		if err != nil {
			return nil, nil, err
		}
		return transpose(A), transpose(Adot), nil
	case a.originIs("Moon") && a.origin.RotationSource.usesLibrations():
		angles, rates, err := a.origin.Ephemeris().LibrationAnglesAndRates(epoch)
		if err != nil {
			return nil, nil, err
		}
		rot, rotDot = librationRotation(angles, rates)
		return rot, rotDot, nil
	}
	α, δ, W, Ẇ, err := a.origin.Ephemeris().CartographicAngles(a.origin.Name(), epoch)
	if err != nil {
		return nil, nil, err
	}
	rot, rotDot = iauBodyFixed(α*deg2rad, δ*deg2rad, W*deg2rad, Ẇ*deg2rad/secondsPerDay)
	return rot, rotDot, nil
}

// bodyInertial computes the origin body equator frozen at J2000.
func (a *AxisSystem) bodyInertial() (rot, rotDot *mat64.Dense, err error) {
	if a.originIs("Earth") {
		return identity(), zero33(), nil
	}
	α, δ, _, _, err := a.origin.Ephemeris().CartographicAngles(a.origin.Name(), bodyInertialEpoch)
	if err != nil {
		return nil, nil, err
	}
	return iauEquator(α*deg2rad, δ*deg2rad), zero33(), nil
}

// iauEquator returns R3(π/2+α)ᵗ·R1(π/2-δ)ᵗ.
func iauEquator(α, δ float64) *mat64.Dense {
	return mul(transpose(R3(math.Pi/2+α)), transpose(R1(math.Pi/2-δ)))
}

// iauBodyFixed returns R3(π/2+α)ᵗ·R1(π/2-δ)ᵗ·R3(W)ᵗ and its derivative, where
// only W varies. Angles in radians and Ẇ in radians per second.
func iauBodyFixed(α, δ, W, Ẇ float64) (rot, rotDot *mat64.Dense) {
	eq := iauEquator(α, δ)
	rot = mul(eq, transpose(R3(W)))
	rotDot = mul(eq, transpose(R3Dot(W, Ẇ)))
	return
}

// librationRotation returns the transpose of the 3-1-3 libration rotation and
// its derivative, differentiated term by term.
func librationRotation(angles, rates [3]float64) (rot, rotDot *mat64.Dense) {
	φ, θ, ψ := angles[0], angles[1], angles[2]
	φDot, θDot, ψDot := rates[0], rates[1], rates[2]
	rot = transpose(R3R1R3(φ, θ, ψ))
	var d mat64.Dense
	d.Add(mul(R3Dot(ψ, ψDot), R1(θ), R3(φ)), mul(R3(ψ), R1Dot(θ, θDot), R3(φ)))
	d.Add(&d, mul(R3(ψ), R1(θ), R3Dot(φ, φDot)))
	rotDot = transpose(&d)
	return
}
