package frames

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mshafiee/jpleph"
)

var dePlanets = map[string]jpleph.Planet{
	"mercury": jpleph.Mercury,
	"venus":   jpleph.Venus,
	"earth":   jpleph.Earth,
	"mars":    jpleph.Mars,
	"jupiter": jpleph.Jupiter,
	"saturn":  jpleph.Saturn,
	"uranus":  jpleph.Uranus,
	"neptune": jpleph.Neptune,
	"pluto":   jpleph.Pluto,
	"moon":    jpleph.Moon,
	"sun":     jpleph.Sun,
}

// DEEphemeris reads a JPL DE binary file. States are about the solar system
// barycenter in the ICRF, taken as MJ2000Eq. Cartographic angles come from the
// IAU rotation elements; lunar librations come from the file when it has them.
type DEEphemeris struct {
	eph  *jpleph.Ephemeris
	auKM float64
}

// NewDEEphemeris opens the provided DE file.
func NewDEEphemeris(path string) (*DEEphemeris, error) {
	eph, err := jpleph.NewEphemeris(path, true)
	if err != nil {
		return nil, fmt.Errorf("could not open DE file %s: %s", path, err)
	}
	au := eph.GetEphemerisDouble(jpleph.AUinKM)
	if au <= 0 {
		au = AU
	}
	return &DEEphemeris{eph, au}, nil
}

// Close releases the DE file.
func (e *DEEphemeris) Close() error {
	return e.eph.Close()
}

// State implements the EphemerisProvider interface.
func (e *DEEphemeris) State(body string, epoch float64) (State6, error) {
	planet, ok := dePlanets[strings.ToLower(body)]
	if !ok {
		return State6{}, fmt.Errorf("%w: '%s' not in the DE ephemeris", ErrUnknownBody, body)
	}
	pos, vel, err := e.eph.CalculatePV(a1ToJDTDB(epoch), planet, jpleph.CenterSolarSystemBarycenter, true)
	if err != nil {
		return State6{}, deError(err)
	}
	kmps := e.auKM / secondsPerDay
	return State6{pos.X * e.auKM, pos.Y * e.auKM, pos.Z * e.auKM, vel.DX * kmps, vel.DY * kmps, vel.DZ * kmps}, nil
}

// CartographicAngles implements the EphemerisProvider interface.
func (e *DEEphemeris) CartographicAngles(body string, epoch float64) (α, δ, W, Ẇ float64, err error) {
	return cartographic(body, epoch)
}

// LibrationAnglesAndRates implements the EphemerisProvider interface.
func (e *DEEphemeris) LibrationAnglesAndRates(epoch float64) (angles, rates [3]float64, err error) {
	pos, vel, err := e.eph.CalculatePV(a1ToJDTDB(epoch), jpleph.Librations, jpleph.CenterSolarSystemBarycenter, true)
	if err != nil {
		if errors.Is(err, jpleph.ErrQuantityNotInEphemeris) {
			err = ErrNoLibrationData
		} else {
			err = deError(err)
		}
		return
	}
	angles = [3]float64{pos.X, pos.Y, pos.Z}
	rates = [3]float64{vel.DX / secondsPerDay, vel.DY / secondsPerDay, vel.DZ / secondsPerDay}
	return
}

func deError(err error) error {
	if errors.Is(err, jpleph.ErrOutsideRange) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, err)
	}
	return err
}
