package frames

import (
	"fmt"
	"sort"
)

// EarthOrientationProvider supplies the Earth orientation parameters. All epochs
// are standard UTC modified Julian dates (JD - 2400000.5).
type EarthOrientationProvider interface {
	// Ut1MinusUtc returns UT1-UTC in seconds.
	Ut1MinusUtc(mjdUTC float64) (float64, error)
	// PolarMotion returns the pole offsets xp and yp in arc seconds.
	PolarMotion(mjdUTC float64) (xp, yp float64, err error)
	// LengthOfDay returns the excess length of day in seconds.
	LengthOfDay(mjdUTC float64) (float64, error)
	// NutationCoefficients returns the nutation series to use.
	NutationCoefficients() []NutationTerm
}

// ConstantEOP returns the same Earth orientation parameters at all epochs.
type ConstantEOP struct {
	Ut1Utc, Xp, Yp, LOD float64
	Terms               []NutationTerm // if nil, the IAU 1980 series is used
}

// NewConstantEOP returns a constant EOP provider with the default nutation series.
func NewConstantEOP(ut1utc, xp, yp, lod float64) *ConstantEOP {
	return &ConstantEOP{ut1utc, xp, yp, lod, nil}
}

// Ut1MinusUtc implements the EarthOrientationProvider interface.
func (e *ConstantEOP) Ut1MinusUtc(mjdUTC float64) (float64, error) {
	return e.Ut1Utc, nil
}

// PolarMotion implements the EarthOrientationProvider interface.
func (e *ConstantEOP) PolarMotion(mjdUTC float64) (float64, float64, error) {
	return e.Xp, e.Yp, nil
}

// LengthOfDay implements the EarthOrientationProvider interface.
func (e *ConstantEOP) LengthOfDay(mjdUTC float64) (float64, error) {
	return e.LOD, nil
}

// NutationCoefficients implements the EarthOrientationProvider interface.
func (e *ConstantEOP) NutationCoefficients() []NutationTerm {
	if e.Terms == nil {
		return IAU1980Nutation()
	}
	return e.Terms
}

// EOPRecord is one row of Earth orientation data.
type EOPRecord struct {
	MJD    float64 // UTC
	Xp, Yp float64 // arc seconds
	Ut1Utc float64 // seconds
	LOD    float64 // seconds
}

// EOPTable interpolates linearly between tabulated Earth orientation records.
type EOPTable struct {
	records []EOPRecord
	terms   []NutationTerm
}

// NewEOPTable returns a new table. The records are sorted by epoch; at least two are needed.
func NewEOPTable(records []EOPRecord, terms []NutationTerm) (*EOPTable, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("EOP table needs at least two records, got %d", len(records))
	}
	rows := make([]EOPRecord, len(records))
	copy(rows, records)
	sort.Slice(rows, func(i, j int) bool { return rows[i].MJD < rows[j].MJD })
	if terms == nil {
		terms = IAU1980Nutation()
	}
	return &EOPTable{rows, terms}, nil
}

// interpolate returns the record at the provided epoch.
func (t *EOPTable) interpolate(mjdUTC float64) (EOPRecord, error) {
	first, last := t.records[0], t.records[len(t.records)-1]
	if mjdUTC < first.MJD || mjdUTC > last.MJD {
		return EOPRecord{}, fmt.Errorf("%w: UTC MJD %.5f not in EOP table [%.1f, %.1f]", ErrOutOfRange, mjdUTC, first.MJD, last.MJD)
	}
	idx := sort.Search(len(t.records), func(i int) bool { return t.records[i].MJD > mjdUTC })
	if idx == len(t.records) {
		return last, nil
	}
	r0, r1 := t.records[idx-1], t.records[idx]
	f := (mjdUTC - r0.MJD) / (r1.MJD - r0.MJD)
	lerp := func(a, b float64) float64 { return a + f*(b-a) }
	return EOPRecord{mjdUTC, lerp(r0.Xp, r1.Xp), lerp(r0.Yp, r1.Yp), lerp(r0.Ut1Utc, r1.Ut1Utc), lerp(r0.LOD, r1.LOD)}, nil
}

// Ut1MinusUtc implements the EarthOrientationProvider interface.
func (t *EOPTable) Ut1MinusUtc(mjdUTC float64) (float64, error) {
	r, err := t.interpolate(mjdUTC)
	return r.Ut1Utc, err
}

// PolarMotion implements the EarthOrientationProvider interface.
func (t *EOPTable) PolarMotion(mjdUTC float64) (float64, float64, error) {
	r, err := t.interpolate(mjdUTC)
	return r.Xp, r.Yp, err
}

// LengthOfDay implements the EarthOrientationProvider interface.
func (t *EOPTable) LengthOfDay(mjdUTC float64) (float64, error) {
	r, err := t.interpolate(mjdUTC)
	return r.LOD, err
}

// NutationCoefficients implements the EarthOrientationProvider interface.
func (t *EOPTable) NutationCoefficients() []NutationTerm {
	return t.terms
}
