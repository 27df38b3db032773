package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// sunTimeConstant is GM☉/c³ in seconds.
var sunTimeConstant = Sun.μ / math.Pow(SpeedOfLight, 3)

// tdbTerms are the leading periodic terms of the Fairhead & Bretagnon TDB-TT series:
// amplitude (s), frequency (rad per Julian century) and phase (rad).
var tdbTerms = [][3]float64{
	{1656.675e-6, 628.3075849991, 6.240054195},
	{22.418e-6, 575.3384884897, 4.296977442},
	{13.840e-6, 1256.6151699983, 6.196904410},
	{4.770e-6, 52.9690962641, 0.444401603},
	{4.677e-6, 606.9776754553, 4.021195093},
	{2.257e-6, 21.3299095438, 5.543113262},
	{1.694e-6, -0.3523118349, 5.025132748},
}

// tdbSecular is the T·sin term of the series, same layout as tdbTerms.
var tdbSecular = [3]float64{10.2156724e-6, 628.3075849991, 4.249032005}

// ShapiroDelay returns the delay (s) of light from the source direction caused by the Sun's potential well.
// θ is the angle between the Sun to Earth vector and the source, so that the delay is zero for a
// source in opposition and maximal (clamped at the solar limb) for a source behind the Sun.
// Subtract it from an arrival time to correct for it.
func ShapiroDelay(jd JulianDate, dir Direction) float64 {
	sunToEarth := r3.Scale(-1, SunPosition(jd))
	r := r3.Norm(sunToEarth)
	cosθ := r3.Dot(unit(sunToEarth), unit(dir.Dir()))
	x := (1 + cosθ) / 2
	if limb := math.Pow(Sun.Radius/r, 2) / 4; x < limb {
		x = limb
	}
	return -2 * sunTimeConstant * math.Log(x)
}

// TravelTime returns the light travel time correction (s) from the Earth center to the solar
// system barycenter along the source direction. Add it to an arrival time.
func TravelTime(jd JulianDate, dir Direction) float64 {
	return r3.Dot(EarthBarycentric(jd), unit(dir.Dir())) / SpeedOfLight
}

// TDBMinusTT returns the correction (s) which is added to TT to obtain TDB.
func TDBMinusTT(jd JulianDate) float64 {
	T := jd.Centuries()
	Δ := 0.0
	for _, term := range tdbTerms {
		Δ += term[0] * math.Sin(term[1]*T+term[2])
	}
	Δ += tdbSecular[0] * T * math.Sin(tdbSecular[1]*T+tdbSecular[2])
	return Δ
}

// ShapiroDelay is the OrbitModel flavor of the package function.
func (m *OrbitModel) ShapiroDelay(jd JulianDate, dir Direction) float64 {
	return ShapiroDelay(jd, dir)
}

// TravelTime is the OrbitModel flavor of the package function.
func (m *OrbitModel) TravelTime(jd JulianDate, dir Direction) float64 {
	return TravelTime(jd, dir)
}

// TDBMinusTT is the OrbitModel flavor of the package function.
func (m *OrbitModel) TDBMinusTT(jd JulianDate) float64 {
	return TDBMinusTT(jd)
}

// SpacecraftTravelTime returns TravelTime including the geocentric position of the satellite.
func (m *OrbitModel) SpacecraftTravelTime(jd JulianDate, dir Direction) float64 {
	return TravelTime(jd, dir) + r3.Dot(m.Position(jd), unit(dir.Dir()))/SpeedOfLight
}

// BarycentricCorrection returns the number of seconds to add to a TT arrival time at the
// satellite to obtain the TDB arrival time at the solar system barycenter.
func (m *OrbitModel) BarycentricCorrection(jd JulianDate, dir Direction) float64 {
	return m.SpacecraftTravelTime(jd, dir) + TDBMinusTT(jd) - ShapiroDelay(jd, dir)
}
