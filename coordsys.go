package frames

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// J2000Epoch is the A.1 epoch at which coordinate systems are first computed by default.
const J2000Epoch = bodyInertialEpoch

// CoordinateSystem is an origin and an axis system. The providers are shared
// and only read; the axis system is owned.
type CoordinateSystem struct {
	Name          string
	OriginName    string
	J2000BodyName string
	// InitialEpoch is the A.1 epoch of the rotation computed by Initialize.
	InitialEpoch float64

	axes              *AxisSystem
	solar             *SolarSystem
	eop               EarthOrientationProvider
	conv              EpochConverter
	cip               CIPProvider
	origin, j2000Body SpacePoint
	logger            kitlog.Logger
	initialized       bool
}

// NewCoordinateSystem returns a new coordinate system, which must be initialized before use.
func NewCoordinateSystem(name, origin string, axes *AxisSystem) *CoordinateSystem {
	return &CoordinateSystem{
		Name:          name,
		OriginName:    origin,
		J2000BodyName: "Earth",
		InitialEpoch:  J2000Epoch,
		axes:          axes,
		logger:        kitlog.NewNopLogger(),
	}
}

// SetSolarSystem attaches the solar system used to resolve the origin and other points.
func (cs *CoordinateSystem) SetSolarSystem(s *SolarSystem) {
	cs.solar = s
	cs.initialized = false
}

// SetEarthOrientation attaches the Earth orientation data.
func (cs *CoordinateSystem) SetEarthOrientation(eop EarthOrientationProvider) {
	cs.eop = eop
	cs.initialized = false
}

// SetEpochConverter attaches the epoch converter. If none is attached, a
// TimeConverter using the Earth orientation data is created at initialization.
func (cs *CoordinateSystem) SetEpochConverter(c EpochConverter) {
	cs.conv = c
	cs.initialized = false
}

// SetCIPProvider attaches the celestial intermediate pole provider.
func (cs *CoordinateSystem) SetCIPProvider(p CIPProvider) {
	cs.cip = p
	cs.initialized = false
}

// SetLogger sets the logger.
func (cs *CoordinateSystem) SetLogger(l kitlog.Logger) {
	cs.logger = kitlog.With(l, "frame", cs.Name)
}

// Initialize resolves the origin and the J2000 body, checks that the axes have
// every provider they need and computes the rotation once.
func (cs *CoordinateSystem) Initialize() (err error) {
	cs.initialized = false
	if cs.axes == nil {
		return configErr(cs.Name, fmt.Errorf("%w: no axis system", ErrUnknownAxes))
	}
	if cs.solar == nil {
		return configErr(cs.Name, fmt.Errorf("%w: no solar system", ErrMissingProvider))
	}
	if cs.origin, err = cs.solar.Point(cs.OriginName); err != nil {
		return configErr(cs.Name, fmt.Errorf("origin: %w", err))
	}
	if cs.j2000Body, err = cs.solar.Point(cs.J2000BodyName); err != nil {
		return configErr(cs.Name, fmt.Errorf("J2000 body: %w", err))
	}
	if cs.conv == nil {
		cs.conv = NewTimeConverter(cs.eop)
	}
	if err = cs.axes.bind(cs, cs.origin); err != nil {
		cs.logger.Log("level", "error", "subsys", "frames", "status", "invalid", "err", err)
		return err
	}
	cs.initialized = true
	cs.logger.Log("level", "info", "subsys", "frames", "origin", cs.origin.Name(), "axes", cs.axes,
		"eop", cs.axes.UsesEarthOrientation(), "nutation", cs.axes.UsesNutationCoefficients(),
		"interval", cs.axes.UsesNutationUpdateInterval(), "ephemeris", cs.axes.UsesEphemeris())
	if _, _, err = cs.axes.ComputeRotation(cs.InitialEpoch, true); err != nil {
		cs.initialized = false
		cs.logger.Log("level", "error", "subsys", "frames", "epoch", cs.InitialEpoch, "err", err)
		return err
	}
	return nil
}

// Initialized returns whether Initialize succeeded since the last change of provider.
func (cs *CoordinateSystem) Initialized() bool {
	return cs.initialized
}

// Axes returns the axis system.
func (cs *CoordinateSystem) Axes() *AxisSystem {
	return cs.axes
}

// Origin returns the resolved origin, nil before initialization.
func (cs *CoordinateSystem) Origin() SpacePoint {
	return cs.origin
}

// J2000Body returns the resolved J2000 body, nil before initialization.
func (cs *CoordinateSystem) J2000Body() SpacePoint {
	return cs.j2000Body
}

// ComputeRotation refreshes the rotation of the axes at the A.1 epoch.
func (cs *CoordinateSystem) ComputeRotation(epoch float64, force bool) error {
	if !cs.initialized {
		return configErr(cs.Name, ErrNotInitialized)
	}
	_, _, err := cs.axes.ComputeRotation(epoch, force)
	return err
}

// Rotation returns the last computed rotation to MJ2000Eq.
func (cs *CoordinateSystem) Rotation() *mat64.Dense {
	return cs.axes.Rotation()
}

// RotationDerivative returns the last computed rotation derivative.
func (cs *CoordinateSystem) RotationDerivative() *mat64.Dense {
	return cs.axes.RotationDerivative()
}

// ToMJ2000 converts a state in this system into MJ2000Eq axes about the J2000
// body. The state is rotated first, then translated. If coincident is set, the
// translation is skipped and the result stays about this origin.
func (cs *CoordinateSystem) ToMJ2000(epoch float64, in State6, coincident, force bool) (State6, error) {
	if err := cs.ComputeRotation(epoch, force); err != nil {
		return State6{}, err
	}
	R, Rdot := cs.Rotation(), cs.RotationDerivative()
	r := in.R()
	out := NewState6(MxV33(R, r), add(MxV33(R, in.V()), MxV33(Rdot, r)))
	if coincident {
		return out, nil
	}
	offset, err := cs.originOffset(epoch)
	if err != nil {
		return State6{}, err
	}
	return out.Add(offset), nil
}

// FromMJ2000 converts a state in MJ2000Eq axes about the J2000 body into this
// system. The state is translated first, then rotated.
func (cs *CoordinateSystem) FromMJ2000(epoch float64, in State6, coincident, force bool) (State6, error) {
	if err := cs.ComputeRotation(epoch, force); err != nil {
		return State6{}, err
	}
	if !coincident {
		offset, err := cs.originOffset(epoch)
		if err != nil {
			return State6{}, err
		}
		in = in.Sub(offset)
	}
	Rt, RdotT := cs.Rotation().T(), cs.RotationDerivative().T()
	r := in.R()
	return NewState6(MxV33(Rt, r), add(MxV33(Rt, in.V()), MxV33(RdotT, r))), nil
}

// originOffset returns the state of the origin about the J2000 body.
func (cs *CoordinateSystem) originOffset(epoch float64) (State6, error) {
	if cs.origin == cs.j2000Body {
		return State6{}, nil
	}
	o, err := cs.origin.MJ2000State(epoch)
	if err != nil {
		return State6{}, domainErr(cs.Name, epoch, fmt.Errorf("origin %s: %w", cs.origin.Name(), err))
	}
	j, err := cs.j2000Body.MJ2000State(epoch)
	if err != nil {
		return State6{}, domainErr(cs.Name, epoch, fmt.Errorf("J2000 body %s: %w", cs.j2000Body.Name(), err))
	}
	return o.Sub(j), nil
}

func (cs *CoordinateSystem) String() string {
	return fmt.Sprintf("%s (%s, %s)", cs.Name, cs.OriginName, cs.axes)
}
