package frames

// CIPProvider supplies the celestial intermediate pole coordinates X and Y and
// the CIO locator s, all in arc seconds, at a TT Julian date.
type CIPProvider interface {
	CIP(jdTT float64) (X, Y, s float64, err error)
}

// SeriesCIP derives the pole coordinates from the IAU 1976/1980 precession and
// nutation models: X and Y are the third row of N·P and s is its leading term.
type SeriesCIP struct {
	Terms []NutationTerm
}

// NewSeriesCIP returns a SeriesCIP with the default nutation series.
func NewSeriesCIP() *SeriesCIP {
	return &SeriesCIP{IAU1980Nutation()}
}

// CIP implements the CIPProvider interface.
func (c *SeriesCIP) CIP(jdTT float64) (X, Y, s float64, err error) {
	T := (jdTT - JDJ2000) / daysPerJulianCentury
	NP := mul(nutationMatrix(nutationAt(T, c.Terms)), precession(T))
	x, y := NP.At(2, 0), NP.At(2, 1)
	return x / arcsec2rad, y / arcsec2rad, -x * y / 2 / arcsec2rad, nil
}
