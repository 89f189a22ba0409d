package frames

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// JDJan5of1941 is the reference Julian date of all A.1 modified Julian epochs.
	JDJan5of1941 = 2430000.0
	// JDNov17of1858 is the reference of the standard modified Julian date.
	JDNov17of1858 = 2400000.5
	// JDJ2000 is the Julian date of the J2000 epoch.
	JDJ2000 = 2451545.0

	secondsPerDay        = 86400.0
	daysPerJulianCentury = 36525.0
	a1TAIOffset          = 0.0343817 // seconds
	ttTAIOffset          = 32.184    // seconds
	tdbCoeff1            = 0.001658
	tdbCoeff2            = 0.00001385
	meanAnomalyEarth0    = 357.5277233
	meanAnomalyEarthRate = 35999.05034
)

// TimeScale is a time system in which an epoch may be expressed.
type TimeScale uint8

// Supported time scales.
const (
	A1 TimeScale = iota
	TAI
	UTC
	UT1
	TT
	TDB
)

var timeScaleNames = map[TimeScale]string{
	A1:  "A1",
	TAI: "TAI",
	UTC: "UTC",
	UT1: "UT1",
	TT:  "TT",
	TDB: "TDB",
}

func (s TimeScale) String() string {
	if name, ok := timeScaleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TimeScale(%d)", uint8(s))
}

// TimeScaleFromString returns the time scale from its name.
func TimeScaleFromString(name string) (TimeScale, error) {
	for scale, n := range timeScaleNames {
		if strings.EqualFold(n, name) {
			return scale, nil
		}
	}
	return 0, fmt.Errorf("unknown time scale '%s'", name)
}

// EpochConverter converts an epoch between time scales. The epoch is a modified
// Julian date referenced to refJD.
type EpochConverter interface {
	Convert(epoch float64, from, to TimeScale, refJD float64) (float64, error)
}

// leapSecond is the TAI-UTC offset which applies from the UTC MJD onward.
type leapSecond struct {
	mjd, offset float64
}

var leapSeconds = []leapSecond{
	{41317, 10}, {41499, 11}, {41683, 12}, {42048, 13}, {42413, 14},
	{42778, 15}, {43144, 16}, {43509, 17}, {43874, 18}, {44239, 19},
	{44786, 20}, {45151, 21}, {45516, 22}, {46247, 23}, {47161, 24},
	{47892, 25}, {48257, 26}, {48804, 27}, {49169, 28}, {49534, 29},
	{50083, 30}, {50630, 31}, {51179, 32}, {53736, 33}, {54832, 34},
	{56109, 35}, {57204, 36}, {57754, 37},
}

// TAIMinusUTC returns the number of leap seconds at the provided UTC standard MJD.
func TAIMinusUTC(mjdUTC float64) (float64, error) {
	if mjdUTC < leapSeconds[0].mjd {
		return 0, fmt.Errorf("%w: UTC MJD %.3f predates the leap second table", ErrOutOfRange, mjdUTC)
	}
	for i := len(leapSeconds) - 1; i >= 0; i-- {
		if mjdUTC >= leapSeconds[i].mjd {
			return leapSeconds[i].offset, nil
		}
	}
	return leapSeconds[0].offset, nil
}

// taiMinusUTCFromTAI is TAIMinusUTC when only the TAI standard MJD is known.
func taiMinusUTCFromTAI(mjdTAI float64) (float64, error) {
	for i := len(leapSeconds) - 1; i >= 0; i-- {
		if mjdTAI >= leapSeconds[i].mjd+leapSeconds[i].offset/secondsPerDay {
			return leapSeconds[i].offset, nil
		}
	}
	return 0, fmt.Errorf("%w: TAI MJD %.3f predates the leap second table", ErrOutOfRange, mjdTAI)
}

// TimeConverter is the default EpochConverter. UT1 conversions require the
// Earth orientation provider.
type TimeConverter struct {
	EOP EarthOrientationProvider
}

// NewTimeConverter returns a new time converter. The EOP may be nil if UT1 is never requested.
func NewTimeConverter(eop EarthOrientationProvider) *TimeConverter {
	return &TimeConverter{EOP: eop}
}

// Convert implements the EpochConverter interface.
func (c *TimeConverter) Convert(epoch float64, from, to TimeScale, refJD float64) (float64, error) {
	if from == to {
		return epoch, nil
	}
	tai, err := c.toTAI(epoch, from, refJD)
	if err != nil {
		return 0, err
	}
	return c.fromTAI(tai, to, refJD)
}

func (c *TimeConverter) toTAI(epoch float64, from TimeScale, refJD float64) (float64, error) {
	switch from {
	case A1:
		return epoch - a1TAIOffset/secondsPerDay, nil
	case TAI:
		return epoch, nil
	case TT:
		return epoch - ttTAIOffset/secondsPerDay, nil
	case TDB:
		return epoch - tdbMinusTT(epoch, refJD)/secondsPerDay - ttTAIOffset/secondsPerDay, nil
	case UTC:
		leap, err := TAIMinusUTC(epoch + refJD - JDNov17of1858)
		if err != nil {
			return 0, err
		}
		return epoch + leap/secondsPerDay, nil
	case UT1:
		if c.EOP == nil {
			return 0, fmt.Errorf("%w: UT1 conversion needs Earth orientation data", ErrMissingProvider)
		}
		// UT1-UTC is tabulated against UTC, so iterate on the TAI epoch.
		tai := epoch
		for i := 0; i < 10; i++ {
			utc, err := c.fromTAI(tai, UTC, refJD)
			if err != nil {
				return 0, err
			}
			δut1, err := c.EOP.Ut1MinusUtc(utc + refJD - JDNov17of1858)
			if err != nil {
				return 0, err
			}
			next := epoch - δut1/secondsPerDay + (tai - utc)
			if math.Abs(next-tai) < 1e-12 {
				return next, nil
			}
			tai = next
		}
		return tai, nil
	default:
		return 0, fmt.Errorf("unsupported time scale %s", from)
	}
}

func (c *TimeConverter) fromTAI(tai float64, to TimeScale, refJD float64) (float64, error) {
	switch to {
	case A1:
		return tai + a1TAIOffset/secondsPerDay, nil
	case TAI:
		return tai, nil
	case TT:
		return tai + ttTAIOffset/secondsPerDay, nil
	case TDB:
		tt := tai + ttTAIOffset/secondsPerDay
		return tt + tdbMinusTT(tt, refJD)/secondsPerDay, nil
	case UTC:
		leap, err := taiMinusUTCFromTAI(tai + refJD - JDNov17of1858)
		if err != nil {
			return 0, err
		}
		return tai - leap/secondsPerDay, nil
	case UT1:
		if c.EOP == nil {
			return 0, fmt.Errorf("%w: UT1 conversion needs Earth orientation data", ErrMissingProvider)
		}
		utc, err := c.fromTAI(tai, UTC, refJD)
		if err != nil {
			return 0, err
		}
		δut1, err := c.EOP.Ut1MinusUtc(utc + refJD - JDNov17of1858)
		if err != nil {
			return 0, err
		}
		return utc + δut1/secondsPerDay, nil
	default:
		return 0, fmt.Errorf("unsupported time scale %s", to)
	}
}

// tdbMinusTT returns TDB-TT in seconds (the leading periodic terms only).
func tdbMinusTT(mjdTT, refJD float64) float64 {
	tTT := JulianCenturies(mjdTT, refJD)
	mE := (meanAnomalyEarth0 + meanAnomalyEarthRate*tTT) * deg2rad
	return tdbCoeff1*math.Sin(mE) + tdbCoeff2*math.Sin(2*mE)
}

// JulianCenturies returns the Julian centuries elapsed since J2000 for a modified
// Julian date referenced to refJD.
func JulianCenturies(mjd, refJD float64) float64 {
	return (mjd + refJD - JDJ2000) / daysPerJulianCentury
}

// EpochFromTime converts a UTC time into an A.1 modified Julian epoch.
func (c *TimeConverter) EpochFromTime(dt time.Time) (float64, error) {
	mjdUTC := julian.TimeToJD(dt.UTC()) - JDJan5of1941
	return c.Convert(mjdUTC, UTC, A1, JDJan5of1941)
}

// TimeFromEpoch converts an A.1 modified Julian epoch into a UTC time.
func (c *TimeConverter) TimeFromEpoch(epoch float64) (time.Time, error) {
	mjdUTC, err := c.Convert(epoch, A1, UTC, JDJan5of1941)
	if err != nil {
		return time.Time{}, err
	}
	return julian.JDToTime(mjdUTC + JDJan5of1941).UTC(), nil
}
