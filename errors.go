package frames

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors returned by this package.
type ErrorKind uint8

const (
	// ConfigurationError is raised at setup time: missing providers, unknown names.
	ConfigurationError ErrorKind = iota + 1
	// DomainError is raised at computation time: epoch out of range, degenerate geometry.
	DomainError
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration"
	case DomainError:
		return "domain"
	default:
		return "unknown"
	}
}

var (
	// ErrMissingProvider is returned when an axis system needs a provider which was not attached.
	ErrMissingProvider = errors.New("required provider not attached")
	// ErrUnknownBody is returned when a body or space point is not registered.
	ErrUnknownBody = errors.New("unknown body or space point")
	// ErrUnknownAxes is returned for an unknown axis system type.
	ErrUnknownAxes = errors.New("unknown axis system")
	// ErrOutOfRange is returned when an epoch is outside of a provider's data.
	ErrOutOfRange = errors.New("epoch outside of valid data range")
	// ErrDegenerateGeometry is returned when object referenced axes cannot be built.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrNotOrthonormal is returned when a computed rotation is not a proper rotation.
	ErrNotOrthonormal = errors.New("rotation matrix determinant not equal to 1")
	// ErrNotInitialized is returned when a coordinate system is used before Initialize.
	ErrNotInitialized = errors.New("coordinate system not initialized")
	// ErrNoLibrationData is returned when the ephemeris cannot provide lunar librations.
	ErrNoLibrationData = errors.New("no lunar libration data in ephemeris")
)

// FrameError carries which frame failed, at which epoch, and why.
type FrameError struct {
	Kind  ErrorKind
	Frame string
	Epoch float64 // A.1 MJD; zero for setup time errors
	Err   error
}

func (e *FrameError) Error() string {
	if e.Kind == DomainError {
		return fmt.Sprintf("%s error in %s at A1MJD %.9f: %s", e.Kind, e.Frame, e.Epoch, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Frame, e.Err)
}

// Unwrap allows errors.Is on the sentinel.
func (e *FrameError) Unwrap() error {
	return e.Err
}

func configErr(frame string, err error) error {
	return &FrameError{Kind: ConfigurationError, Frame: frame, Err: err}
}

func domainErr(frame string, epoch float64, err error) error {
	var fe *FrameError
	if errors.As(err, &fe) {
		// Already tagged deeper down.
		return err
	}
	return &FrameError{Kind: DomainError, Frame: frame, Epoch: epoch, Err: err}
}

// IsConfigurationError returns whether the error is a setup time error.
func IsConfigurationError(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe) && fe.Kind == ConfigurationError
}

// IsDomainError returns whether the error was raised during a computation.
func IsDomainError(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe) && fe.Kind == DomainError
}
