package frames

import (
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// CoordinateConverter converts states between coordinate systems through MJ2000Eq.
type CoordinateConverter struct {
	logger  kitlog.Logger
	lastRot *mat64.Dense
}

// NewCoordinateConverter returns a new converter.
func NewCoordinateConverter() *CoordinateConverter {
	return &CoordinateConverter{logger: kitlog.NewNopLogger(), lastRot: identity()}
}

// SetLogger sets the logger.
func (c *CoordinateConverter) SetLogger(l kitlog.Logger) {
	c.logger = l
}

// Convert converts the state at the A.1 epoch from one coordinate system to another.
func (c *CoordinateConverter) Convert(epoch float64, in State6, from, to *CoordinateSystem) (State6, error) {
	return c.ConvertWithForce(epoch, in, from, to, false)
}

// ConvertWithForce is Convert which may bypass the recompute cache of both systems.
func (c *CoordinateConverter) ConvertWithForce(epoch float64, in State6, from, to *CoordinateSystem, force bool) (State6, error) {
	start := time.Now()
	if from == nil || to == nil {
		return State6{}, configErr("converter", fmt.Errorf("%w: nil coordinate system", ErrNotInitialized))
	}
	for _, cs := range []*CoordinateSystem{from, to} {
		if !cs.initialized {
			return State6{}, configErr(cs.Name, ErrNotInitialized)
		}
	}
	if from == to || (from.origin == to.origin && from.axes == to.axes) {
		c.lastRot = identity()
		conversions.WithLabelValues("identity").Inc()
		c.logger.Log("level", "debug", "subsys", "converter", "from", from.Name, "to", to.Name, "path", "identity")
		return in, nil
	}
	coincident := from.origin == to.origin
	mid, err := from.ToMJ2000(epoch, in, coincident, force)
	if err != nil {
		return State6{}, c.fail(from, to, epoch, err)
	}
	if !coincident && from.j2000Body != to.j2000Body {
		fj, err := from.j2000Body.MJ2000State(epoch)
		if err != nil {
			return State6{}, c.fail(from, to, epoch, domainErr(from.Name, epoch, err))
		}
		tj, err := to.j2000Body.MJ2000State(epoch)
		if err != nil {
			return State6{}, c.fail(from, to, epoch, domainErr(to.Name, epoch, err))
		}
		mid = mid.Add(fj.Sub(tj))
	}
	out, err := to.FromMJ2000(epoch, mid, coincident, force)
	if err != nil {
		return State6{}, c.fail(from, to, epoch, err)
	}
	c.lastRot = mul(transpose(to.Rotation()), from.Rotation())
	conversions.WithLabelValues("full").Inc()
	conversionDurationSeconds.WithLabelValues("full").Observe(time.Since(start).Seconds())
	return out, nil
}

func (c *CoordinateConverter) fail(from, to *CoordinateSystem, epoch float64, err error) error {
	c.logger.Log("level", "error", "subsys", "converter", "from", from.Name, "to", to.Name, "epoch", epoch, "err", err)
	return err
}

// LastRotation returns the rotation from the source axes to the target axes of
// the last conversion. It is the identity after a short-circuited conversion.
func (c *CoordinateConverter) LastRotation() *mat64.Dense {
	return c.lastRot
}
