package frames

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gonum/matrix/mat64"
)

// AxisKind is the type of an axis system.
type AxisKind uint8

// Supported axis systems.
const (
	MJ2000Eq AxisKind = iota
	MJ2000Ec
	MODEq
	MODEc
	TODEq
	TODEc
	MOEEq
	MOEEc
	TOEEq
	TOEEc
	Equator
	BodyFixed
	BodyInertial
	ITRF
	ObjectReferenced
	Topocentric
)

var axisKindNames = [...]string{
	"MJ2000Eq", "MJ2000Ec", "MODEq", "MODEc", "TODEq", "TODEc", "MOEEq", "MOEEc",
	"TOEEq", "TOEEc", "Equator", "BodyFixed", "BodyInertial", "ITRF", "ObjectReferenced", "Topocentric",
}

func (k AxisKind) String() string {
	if int(k) < len(axisKindNames) {
		return axisKindNames[k]
	}
	return fmt.Sprintf("AxisKind(%d)", uint8(k))
}

// AxisKindFromString returns the axis kind from its name, ignoring case.
func AxisKindFromString(name string) (AxisKind, error) {
	for i, n := range axisKindNames {
		if strings.EqualFold(n, name) {
			return AxisKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownAxes, name)
}

// ObjectAxis is a direction which may define an object referenced axis.
type ObjectAxis uint8

// Object referenced directions. R is from primary to secondary, V is their
// relative velocity and N is R×V.
const (
	NoAxis ObjectAxis = iota
	AxisR
	AxisMinusR
	AxisV
	AxisMinusV
	AxisN
	AxisMinusN
)

var objectAxisNames = [...]string{"", "R", "-R", "V", "-V", "N", "-N"}

func (o ObjectAxis) String() string {
	if int(o) < len(objectAxisNames) {
		return objectAxisNames[o]
	}
	return fmt.Sprintf("ObjectAxis(%d)", uint8(o))
}

// direction returns R, V or N regardless of the sign.
func (o ObjectAxis) direction() ObjectAxis {
	switch o {
	case AxisMinusR:
		return AxisR
	case AxisMinusV:
		return AxisV
	case AxisMinusN:
		return AxisN
	}
	return o
}

// ObjectAxisFromString returns the direction from its name; the empty string is NoAxis.
func ObjectAxisFromString(name string) (ObjectAxis, error) {
	for i, n := range objectAxisNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ObjectAxis(i), nil
		}
	}
	return NoAxis, fmt.Errorf("unknown object referenced axis '%s'", name)
}

// watched are the values the recompute cache compares.
type watched struct {
	epoch          float64
	axesEpoch      float64
	originInterval float64
	updateInterval float64
	source         RotationDataSource
	site           [2]float64 // station latitude and longitude
	geometry
}

// recomputeCache remembers what the last rotation was computed for.
type recomputeCache struct {
	valid bool
	watched
}

func (c recomputeCache) matches(w watched) bool {
	return c.valid && c.watched == w
}

// AxisSystem computes the rotation from its axes to MJ2000Eq, and the time
// derivative of that rotation. An axis system belongs to a single coordinate
// system, which attaches the providers it needs.
type AxisSystem struct {
	Kind AxisKind
	// Epoch is the fixed epoch (A.1 MJD) of the MOE and TOE axes.
	Epoch float64
	// Primary and Secondary name the space points of object referenced axes.
	Primary, Secondary string
	// X, Y and Z are the object referenced directions; exactly two must be set.
	X, Y, Z ObjectAxis

	updateInterval float64 // seconds; negative means that of the Earth body
	owner          *CoordinateSystem
	frame          string

	origin             *CelestialBody // nil when the origin is not a body
	station            *Station       // origin of topocentric axes
	earth              *CelestialBody
	primary, secondary SpacePoint
	eop                EarthOrientationProvider
	conv               EpochConverter
	cip                CIPProvider

	nut         heldNutation
	cache       recomputeCache
	rot, rotDot *mat64.Dense
}

// NewAxes returns a new axis system of the provided kind.
func NewAxes(kind AxisKind) *AxisSystem {
	return &AxisSystem{Kind: kind, updateInterval: -1}
}

// NewFixedEpochAxes returns MOE or TOE axes at the provided A.1 epoch.
func NewFixedEpochAxes(kind AxisKind, epoch float64) *AxisSystem {
	a := NewAxes(kind)
	a.Epoch = epoch
	return a
}

// NewObjectReferencedAxes returns object referenced axes.
func NewObjectReferencedAxes(primary, secondary string, x, y, z ObjectAxis) *AxisSystem {
	a := NewAxes(ObjectReferenced)
	a.Primary, a.Secondary = primary, secondary
	a.X, a.Y, a.Z = x, y, z
	return a
}

// SetUpdateInterval overrides the nutation update interval of the Earth body, in seconds.
func (a *AxisSystem) SetUpdateInterval(seconds float64) {
	a.updateInterval = seconds
}

// UpdateInterval returns the nutation update interval in seconds.
func (a *AxisSystem) UpdateInterval() float64 {
	if a.updateInterval >= 0 || a.earth == nil {
		return math.Max(a.updateInterval, 0)
	}
	return a.earth.NutationInterval
}

func (a *AxisSystem) originIs(name string) bool {
	return a.origin != nil && a.origin.Is(name)
}

// bodyBased returns whether the axes are defined by the origin body.
func (a *AxisSystem) bodyBased() bool {
	return a.Kind == Equator || a.Kind == BodyFixed || a.Kind == BodyInertial
}

// fixedEpoch returns whether the axes are evaluated at their own epoch.
func (a *AxisSystem) fixedEpoch() bool {
	switch a.Kind {
	case MOEEq, MOEEc, TOEEq, TOEEc:
		return true
	}
	return false
}

// UsesEarthOrientation returns whether polar motion and UT1 are needed.
func (a *AxisSystem) UsesEarthOrientation() bool {
	return a.Kind == ITRF || (a.Kind == BodyFixed && a.originIs("Earth"))
}

// UsesNutationCoefficients returns whether the nutation series is needed.
func (a *AxisSystem) UsesNutationCoefficients() bool {
	switch a.Kind {
	case TODEq, TODEc, TOEEq, TOEEc:
		return true
	case Equator, BodyFixed:
		return a.originIs("Earth")
	}
	return false
}

// UsesNutationUpdateInterval returns whether nutation is held between updates.
func (a *AxisSystem) UsesNutationUpdateInterval() bool {
	switch a.Kind {
	case TODEq, TODEc:
		return true
	case Equator, BodyFixed:
		return a.originIs("Earth")
	}
	return false
}

// UsesEphemeris returns whether the origin body's ephemeris provider is needed.
func (a *AxisSystem) UsesEphemeris() bool {
	return a.bodyBased() && !a.originIs("Earth")
}

// UsesCIP returns whether the celestial intermediate pole provider is needed.
func (a *AxisSystem) UsesCIP() bool {
	return a.Kind == ITRF
}

// UsesPrimary returns whether a primary space point is needed.
func (a *AxisSystem) UsesPrimary() bool {
	return a.Kind == ObjectReferenced
}

// UsesSecondary returns whether a secondary space point is needed.
func (a *AxisSystem) UsesSecondary() bool {
	return a.Kind == ObjectReferenced
}

// UsesEpoch returns whether the axes use their own fixed epoch.
func (a *AxisSystem) UsesEpoch() bool {
	return a.fixedEpoch()
}

// usesEpochConverter returns whether the axes depend on time at all.
func (a *AxisSystem) usesEpochConverter() bool {
	switch a.Kind {
	case MJ2000Eq, MJ2000Ec, ObjectReferenced, Topocentric:
		return false
	}
	return true
}

// bind attaches the axes to their coordinate system and its providers.
func (a *AxisSystem) bind(cs *CoordinateSystem, origin SpacePoint) error {
	if a.owner != nil && a.owner != cs {
		return configErr(cs.Name, fmt.Errorf("axis system already belongs to %s", a.owner.Name))
	}
	a.owner, a.frame = cs, cs.Name
	a.origin, _ = origin.(*CelestialBody)
	a.station, _ = origin.(*Station)
	a.eop, a.conv, a.cip = cs.eop, cs.conv, cs.cip
	a.earth, a.primary, a.secondary = nil, nil, nil
	if cs.solar != nil {
		a.earth, _ = cs.solar.Body("Earth")
		if a.Kind == ObjectReferenced {
			var err error
			if a.primary, err = cs.solar.Point(a.Primary); err != nil {
				return configErr(a.frame, fmt.Errorf("primary: %w", err))
			}
			if a.secondary, err = cs.solar.Point(a.Secondary); err != nil {
				return configErr(a.frame, fmt.Errorf("secondary: %w", err))
			}
		}
	}
	a.cache = recomputeCache{}
	a.nut = heldNutation{}
	a.rot, a.rotDot = nil, nil
	return a.Validate()
}

// Validate checks that every provider the axes need is attached.
func (a *AxisSystem) Validate() error {
	frame := a.frame
	if frame == "" {
		frame = a.Kind.String()
	}
	missing := func(what string) error {
		return configErr(frame, fmt.Errorf("%w: %s axes need %s", ErrMissingProvider, a.Kind, what))
	}
	if int(a.Kind) >= len(axisKindNames) {
		return configErr(frame, fmt.Errorf("%w: %s", ErrUnknownAxes, a.Kind))
	}
	if a.owner == nil {
		return configErr(frame, ErrNotInitialized)
	}
	if a.bodyBased() && a.origin == nil {
		return configErr(frame, fmt.Errorf("%s axes need a celestial body origin", a.Kind))
	}
	if a.Kind == ITRF && !a.originIs("Earth") {
		return configErr(frame, errors.New("ITRF axes need the Earth as origin"))
	}
	if a.Kind == Topocentric && a.station == nil {
		return configErr(frame, errors.New("topocentric axes need a station as origin"))
	}
	if a.usesEpochConverter() && a.conv == nil {
		return missing("an epoch converter")
	}
	if (a.UsesEarthOrientation() || a.UsesNutationCoefficients()) && a.eop == nil {
		return missing("Earth orientation data")
	}
	if a.UsesNutationUpdateInterval() && a.earth == nil && a.updateInterval < 0 {
		return missing("the Earth body for its nutation interval")
	}
	if a.UsesEphemeris() && a.origin.Ephemeris() == nil {
		return missing("an ephemeris for " + a.origin.Name())
	}
	if a.UsesCIP() && a.cip == nil {
		return missing("a CIP provider")
	}
	if a.Kind == ObjectReferenced {
		if a.primary == nil || a.secondary == nil {
			return missing("a solar system to resolve the primary and secondary")
		}
		if err := a.validateObjectAxes(); err != nil {
			return configErr(frame, err)
		}
	}
	return nil
}

// validateObjectAxes checks that exactly two non colinear directions are set.
func (a *AxisSystem) validateObjectAxes() error {
	var set []ObjectAxis
	for _, o := range []ObjectAxis{a.X, a.Y, a.Z} {
		if o != NoAxis {
			set = append(set, o)
		}
	}
	if len(set) != 2 {
		return fmt.Errorf("object referenced axes are improperly defined: %d axes set (X=%s Y=%s Z=%s)", len(set), a.X, a.Y, a.Z)
	}
	if set[0].direction() == set[1].direction() {
		return fmt.Errorf("object referenced axes are improperly defined: %s and %s are colinear", set[0], set[1])
	}
	return nil
}

// watch returns the values the recompute cache compares for this epoch.
func (a *AxisSystem) watch(epoch float64) (watched, error) {
	w := watched{epoch: epoch, updateInterval: a.UpdateInterval()}
	if a.fixedEpoch() {
		w.axesEpoch = a.Epoch
	}
	if a.earth != nil {
		w.originInterval = a.earth.NutationInterval
	}
	if a.originIs("Moon") {
		w.source = a.origin.RotationSource
	}
	switch a.Kind {
	case ObjectReferenced:
		g, err := a.relativeMotion(epoch)
		if err != nil {
			return w, err
		}
		w.geometry = g
	case Topocentric:
		w.site = [2]float64{a.station.LatΦ, a.station.Longθ}
		w.updateInterval = a.station.Frame().Axes().UpdateInterval()
		if a.station.body.Is("Moon") {
			w.source = a.station.body.RotationSource
		}
	}
	return w, nil
}

// ComputeRotation computes the rotation from these axes to MJ2000Eq and its
// time derivative (1/s) at the A.1 epoch. Unless forced, the last result is
// reused when nothing it depends on has changed. The returned matrices must not
// be modified.
func (a *AxisSystem) ComputeRotation(epoch float64, force bool) (*mat64.Dense, *mat64.Dense, error) {
	if a.owner == nil {
		return nil, nil, configErr(a.Kind.String(), ErrNotInitialized)
	}
	w, err := a.watch(epoch)
	if err != nil {
		return nil, nil, domainErr(a.frame, epoch, err)
	}
	if !force && a.cache.matches(w) {
		rotationCacheHits.WithLabelValues(a.Kind.String()).Inc()
		return a.rot, a.rotDot, nil
	}
	a.cache.valid = false
	rot, rotDot, err := a.compute(epoch, force, w.geometry)
	if err != nil {
		return nil, nil, domainErr(a.frame, epoch, err)
	}
	if a.Kind == ObjectReferenced {
		if err := checkOrthonormal(rot); err != nil {
			return nil, nil, domainErr(a.frame, epoch, err)
		}
	} else if err := checkRotation(rot); err != nil {
		return nil, nil, &FrameError{Kind: ConfigurationError, Frame: a.frame, Epoch: epoch, Err: err}
	}
	a.rot, a.rotDot = rot, rotDot
	a.cache = recomputeCache{true, w}
	rotationComputations.WithLabelValues(a.Kind.String()).Inc()
	return rot, rotDot, nil
}

// Rotation returns the last computed rotation, or nil.
func (a *AxisSystem) Rotation() *mat64.Dense {
	return a.rot
}

// RotationDerivative returns the last computed rotation derivative, or nil.
func (a *AxisSystem) RotationDerivative() *mat64.Dense {
	return a.rotDot
}

// compute dispatches on the kind of axes.
func (a *AxisSystem) compute(epoch float64, force bool, g geometry) (rot, rotDot *mat64.Dense, err error) {
	switch a.Kind {
	case MJ2000Eq:
		return identity(), zero33(), nil
	case MJ2000Ec:
		return transpose(R1(meanObliquity(0))), zero33(), nil
	case MODEq, MODEc, TODEq, TODEc, MOEEq, MOEEc, TOEEq, TOEEc:
		return a.earthEquinoxAxes(epoch, force)
	case Equator:
		return a.equator(epoch, force)
	case BodyFixed:
		return a.bodyFixed(epoch, force)
	case BodyInertial:
		return a.bodyInertial()
	case ITRF:
		return a.itrf(epoch)
	case ObjectReferenced:
		return a.objectReferenced(g)
	case Topocentric:
		return a.topocentric(epoch, force)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownAxes, a.Kind)
}

// earthEquinoxAxes computes the mean and true of date and of epoch axes.
func (a *AxisSystem) earthEquinoxAxes(epoch float64, force bool) (rot, rotDot *mat64.Dense, err error) {
	at := epoch
	if a.fixedEpoch() {
		at = a.Epoch
	}
	et, err := newEarthTimes(a.conv, at, false)
	if err != nil {
		return nil, nil, err
	}
	var A *mat64.Dense
	switch a.Kind {
	case MODEq, MOEEq:
		A = precession(et.tTDB)
	case MODEc, MOEEc:
		A = mul(R1(meanObliquity(et.tTDB)), precession(et.tTDB))
	case TODEq, TODEc:
		a.nut.interval = a.UpdateInterval()
		var n nutationAngles
		A, n = fk5Equator(et, &a.nut, at, a.eop.NutationCoefficients(), force)
		if a.Kind == TODEc {
			A = mul(R1(n.ε()), A)
		}
	case TOEEq, TOEEc:
		var once heldNutation
		var n nutationAngles
		A, n = fk5Equator(et, &once, at, a.eop.NutationCoefficients(), true)
		if a.Kind == TOEEc {
			A = mul(R1(n.ε()), A)
		}
	}
	return transpose(A), zero33(), nil
}

// checkOrthonormal returns an error if the columns of m are not orthonormal.
func checkOrthonormal(m *mat64.Dense) error {
	var mtm mat64.Dense
	mtm.Mul(m.T(), m)
	if !mat64.EqualApprox(&mtm, identity(), detTolerance) {
		return fmt.Errorf("%w: axes are not orthogonal", ErrDegenerateGeometry)
	}
	return checkRotation(m)
}

// OrientationAngles recovers from the last computed rotation the right
// ascension and declination of the pole and the prime meridian angle in
// degrees, and the prime meridian rate in degrees per day.
func (a *AxisSystem) OrientationAngles() (α, δ, W, Ẇ float64, err error) {
	if a.rot == nil {
		return 0, 0, 0, 0, configErr(a.frame, ErrNotInitialized)
	}
	M, Mdot := a.rot, a.rotDot
	δ = math.Asin(math.Max(-1, math.Min(1, M.At(2, 2))))
	α = math.Atan2(M.At(1, 2), M.At(0, 2))
	cδ := clampTrig(math.Cos(δ))
	sW, cW := M.At(2, 0)/cδ, M.At(2, 1)/cδ
	W = math.Atan2(sW, cW)
	Ẇ = (Mdot.At(2, 0)*cW - Mdot.At(2, 1)*sW) / cδ
	return Rad2deg(α), δ / deg2rad, Rad2deg(W), Ẇ / deg2rad * secondsPerDay, nil
}

func (a *AxisSystem) String() string {
	if a.Kind == ObjectReferenced {
		return fmt.Sprintf("%s(%s→%s X=%s Y=%s Z=%s)", a.Kind, a.Primary, a.Secondary, a.X, a.Y, a.Z)
	}
	if a.fixedEpoch() {
		return fmt.Sprintf("%s@%.6f", a.Kind, a.Epoch)
	}
	if a.station != nil {
		return fmt.Sprintf("%s(%s)", a.Kind, a.station.Name())
	}
	return a.Kind.String()
}
