package frames

import "math"

// NutationTerm is one row of the IAU 1980 nutation series. The multipliers apply
// to the fundamental arguments D, M, M', F and Ω; the coefficients are in units
// of 0.0001 arc seconds (per Julian century for the rates).
type NutationTerm struct {
	D, M, Mp, F, Ω int8
	Ψ0, Ψ1         float64 // longitude: sine coefficients
	Ε0, Ε1         float64 // obliquity: cosine coefficients
}

// iau1980 holds the 63 terms of the IAU 1980 series with a coefficient of at
// least 0.0003", largest first. The 43 omitted terms change Δψ and Δε by less
// than 0.01" (5e-8 rad) in total; load the full series through an
// EarthOrientationProvider when that matters.
var iau1980 = []NutationTerm{
	{0, 0, 0, 0, 1, -171996, -174.2, 92025, 8.9},
	{-2, 0, 0, 2, 2, -13187, -1.6, 5736, -3.1},
	{0, 0, 0, 2, 2, -2274, -0.2, 977, -0.5},
	{0, 0, 0, 0, 2, 2062, 0.2, -895, 0.5},
	{0, 1, 0, 0, 0, 1426, -3.4, 54, -0.1},
	{0, 0, 1, 0, 0, 712, 0.1, -7, 0},
	{-2, 1, 0, 2, 2, -517, 1.2, 224, -0.6},
	{0, 0, 0, 2, 1, -386, -0.4, 200, 0},
	{0, 0, 1, 2, 2, -301, 0, 129, -0.1},
	{-2, -1, 0, 2, 2, 217, -0.5, -95, 0.3},
	{-2, 0, 1, 0, 0, -158, 0, 0, 0},
	{-2, 0, 0, 2, 1, 129, 0.1, -70, 0},
	{0, 0, -1, 2, 2, 123, 0, -53, 0},
	{2, 0, 0, 0, 0, 63, 0, 0, 0},
	{0, 0, 1, 0, 1, 63, 0.1, -33, 0},
	{2, 0, -1, 2, 2, -59, 0, 26, 0},
	{0, 0, -1, 0, 1, -58, -0.1, 32, 0},
	{0, 0, 1, 2, 1, -51, 0, 27, 0},
	{-2, 0, 2, 0, 0, 48, 0, 0, 0},
	{0, 0, -2, 2, 1, 46, 0, -24, 0},
	{2, 0, 0, 2, 2, -38, 0, 16, 0},
	{0, 0, 2, 2, 2, -31, 0, 13, 0},
	{0, 0, 2, 0, 0, 29, 0, 0, 0},
	{-2, 0, 1, 2, 2, 29, 0, -12, 0},
	{0, 0, 0, 2, 0, 26, 0, 0, 0},
	{-2, 0, 0, 2, 0, -22, 0, 0, 0},
	{0, 0, -1, 2, 1, 21, 0, -10, 0},
	{0, 2, 0, 0, 0, 17, -0.1, 0, 0},
	{2, 0, -1, 0, 1, 16, 0, -8, 0},
	{-2, 2, 0, 2, 2, -16, 0.1, 7, 0},
	{0, 1, 0, 0, 1, -15, 0, 9, 0},
	{-2, 0, 1, 0, 1, -13, 0, 7, 0},
	{0, -1, 0, 0, 1, -12, 0, 6, 0},
	{0, 0, 2, -2, 0, 11, 0, 0, 0},
	{2, 0, -1, 2, 1, -10, 0, 5, 0},
	{2, 0, 1, 2, 2, -8, 0, 3, 0},
	{0, 1, 0, 2, 2, 7, 0, -3, 0},
	{-2, 1, 1, 0, 0, -7, 0, 0, 0},
	{0, -1, 0, 2, 2, -7, 0, 3, 0},
	{2, 0, 0, 2, 1, -7, 0, 3, 0},
	{2, 0, 1, 0, 0, 6, 0, 0, 0},
	{-2, 0, 2, 2, 2, 6, 0, -3, 0},
	{-2, 0, 1, 2, 1, 6, 0, -3, 0},
	{2, 0, -2, 0, 1, -6, 0, 3, 0},
	{2, 0, 0, 0, 1, -6, 0, 3, 0},
	{0, -1, 1, 0, 0, 5, 0, 0, 0},
	{-2, -1, 0, 2, 1, -5, 0, 3, 0},
	{-2, 0, 0, 0, 1, -5, 0, 3, 0},
	{0, 0, 2, 2, 1, -5, 0, 3, 0},
	{-2, 0, 2, 0, 1, 4, 0, 0, 0},
	{-2, 1, 0, 2, 1, 4, 0, 0, 0},
	{0, 0, 1, -2, 0, 4, 0, 0, 0},
	{-1, 0, 1, 0, 0, -4, 0, 0, 0},
	{-2, 1, 0, 0, 0, -4, 0, 0, 0},
	{1, 0, 0, 0, 0, -4, 0, 0, 0},
	{0, 0, 1, 2, 0, 3, 0, 0, 0},
	{0, 0, -2, 2, 2, -3, 0, 0, 0},
	{-1, -1, 1, 0, 0, -3, 0, 0, 0},
	{0, 1, 1, 0, 0, -3, 0, 0, 0},
	{0, -1, 1, 2, 2, -3, 0, 0, 0},
	{2, -1, -1, 2, 2, -3, 0, 0, 0},
	{0, 0, 3, 2, 2, -3, 0, 0, 0},
	{2, -1, 0, 2, 2, -3, 0, 0, 0},
}

// IAU1980Nutation returns a copy of the default nutation series.
func IAU1980Nutation() []NutationTerm {
	terms := make([]NutationTerm, len(iau1980))
	copy(terms, iau1980)
	return terms
}

// fundamentalArgs are the Delaunay arguments in radians.
type fundamentalArgs struct {
	D, M, Mp, F, Ω float64
}

// delaunay returns the IAU 1980 fundamental arguments at T Julian centuries (TDB) from J2000.
func delaunay(T float64) fundamentalArgs {
	const r = 1296000.0 // arc seconds per revolution
	T2, T3 := T*T, T*T*T
	arg := func(a0, a1, a2, a3 float64) float64 {
		return math.Mod(a0+a1*T+a2*T2+a3*T3, r) * arcsec2rad
	}
	return fundamentalArgs{
		D:  arg(1072261.307, 1236*r+1105601.328, -6.891, 0.019),
		M:  arg(1287099.804, 99*r+1292581.224, -0.577, -0.012),
		Mp: arg(485866.733, 1325*r+715922.633, 31.310, 0.064),
		F:  arg(335778.877, 1342*r+295263.137, -13.257, 0.011),
		Ω:  arg(450160.280, -(5*r + 482890.539), 7.455, 0.008),
	}
}

// meanObliquity returns the IAU 1976 mean obliquity of the ecliptic in radians.
func meanObliquity(T float64) float64 {
	return (84381.448 - 46.8150*T - 0.00059*T*T + 0.001813*T*T*T) * arcsec2rad
}

// nutationAngles are the results of a nutation evaluation, in radians.
type nutationAngles struct {
	Δψ, Δε float64
	εbar   float64 // mean obliquity
	Ω      float64 // longitude of the lunar ascending node
}

// ε returns the true obliquity.
func (n nutationAngles) ε() float64 {
	return n.εbar + n.Δε
}

// nutationAt evaluates the series at T Julian centuries (TDB) from J2000.
func nutationAt(T float64, terms []NutationTerm) nutationAngles {
	fa := delaunay(T)
	var Δψ, Δε float64
	for _, t := range terms {
		arg := float64(t.D)*fa.D + float64(t.M)*fa.M + float64(t.Mp)*fa.Mp + float64(t.F)*fa.F + float64(t.Ω)*fa.Ω
		s, c := math.Sincos(arg)
		Δψ += (t.Ψ0 + t.Ψ1*T) * s
		Δε += (t.Ε0 + t.Ε1*T) * c
	}
	const coeff = 1e-4 * arcsec2rad
	return nutationAngles{Δψ * coeff, Δε * coeff, meanObliquity(T), fa.Ω}
}

// equationOfEquinoxes returns the apparent minus mean sidereal time in radians.
// The Ω terms apply after 1997 February 27.
func equationOfEquinoxes(n nutationAngles, jdTT float64) float64 {
	eq := n.Δψ * math.Cos(n.εbar)
	if jdTT > 2450506.5 {
		eq += (0.00264*math.Sin(n.Ω) + 0.000063*math.Sin(2*n.Ω)) * arcsec2rad
	}
	return eq
}
