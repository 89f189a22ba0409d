package frames

import "github.com/gonum/matrix/mat64"

// topocentric computes the south, east and zenith axes of the origin station.
// The body fixed rotation of the station body is taken from the station's own
// frame and the local axes are constant in it.
func (a *AxisSystem) topocentric(epoch float64, force bool) (rot, rotDot *mat64.Dense, err error) {
	fixed, fixedDot, err := a.station.Frame().Axes().ComputeRotation(epoch, force)
	if err != nil {
		return nil, nil, err
	}
	sez := transpose(a.station.fixedToSEZ())
	return mul(fixed, sez), mul(fixedDot, sez), nil
}
