package frames

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// magnitudeε is the smallest usable length of an object referenced direction.
const magnitudeε = 1e-12

// geometry is the relative motion object referenced axes are built from.
type geometry struct {
	rv  State6
	acc [3]float64
}

// relativeMotion returns the state and acceleration of the secondary with
// respect to the primary.
func (a *AxisSystem) relativeMotion(epoch float64) (geometry, error) {
	var g geometry
	ps, err := a.primary.MJ2000State(epoch)
	if err != nil {
		return g, err
	}
	ss, err := a.secondary.MJ2000State(epoch)
	if err != nil {
		return g, err
	}
	pa, err := a.primary.MJ2000Acceleration(epoch)
	if err != nil {
		return g, err
	}
	sa, err := a.secondary.MJ2000Acceleration(epoch)
	if err != nil {
		return g, err
	}
	g.rv = ss.Sub(ps)
	copy(g.acc[:], add(sa, scale(-1, pa)))
	return g, nil
}

// objectReferenced builds the axes from the relative motion of the secondary
// with respect to the primary. The columns of the rotation are X, Y and Z.
func (a *AxisSystem) objectReferenced(g geometry) (rot, rotDot *mat64.Dense, err error) {
	r, v := g.rv.R(), g.rv.V()
	acc := g.acc[:]
	n := Cross(r, v)
	rMag, vMag, nMag := Norm(r), Norm(v), Norm(n)
	if rMag < magnitudeε || vMag < magnitudeε || nMag < magnitudeε*rMag*vMag {
		return nil, nil, fmt.Errorf("%w: %s axes undefined, |r|=%g |v|=%g |r×v|=%g", ErrDegenerateGeometry, a.Kind, rMag, vMag, nMag)
	}
	rU, vU, nU := unit(r), unit(v), unit(n)
	rDot := add(scale(1/rMag, v), scale(-dot(rU, v)/rMag, rU))
	vDot := add(scale(1/vMag, acc), scale(-dot(vU, acc)/vMag, vU))
	ra := Cross(r, acc)
	nDot := add(scale(1/nMag, ra), scale(-dot(ra, nU)/nMag, nU))

	pick := func(o ObjectAxis) (u, d []float64) {
		switch o {
		case AxisR:
			return rU, rDot
		case AxisMinusR:
			return scale(-1, rU), scale(-1, rDot)
		case AxisV:
			return vU, vDot
		case AxisMinusV:
			return scale(-1, vU), scale(-1, vDot)
		case AxisN:
			return nU, nDot
		case AxisMinusN:
			return scale(-1, nU), scale(-1, nDot)
		}
		return nil, nil
	}
	x, xDot := pick(a.X)
	y, yDot := pick(a.Y)
	z, zDot := pick(a.Z)
	switch {
	case x != nil && y != nil && z == nil:
		z = Cross(x, y)
		zDot = add(Cross(xDot, y), Cross(x, yDot))
	case x != nil && z != nil && y == nil:
		y = Cross(z, x)
		yDot = add(Cross(zDot, x), Cross(z, xDot))
	case y != nil && z != nil && x == nil:
		x = Cross(y, z)
		xDot = add(Cross(yDot, z), Cross(y, zDot))
	default:
		return nil, nil, fmt.Errorf("%w: object referenced axes are improperly defined", ErrDegenerateGeometry)
	}
	return columns(x, y, z), columns(xDot, yDot, zDot), nil
}

// columns returns the 3x3 matrix whose columns are the provided vectors.
func columns(x, y, z []float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	})
}
