package astro

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
	sunit "github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// generalPrecession is the precession in ecliptic longitude per Julian century.
var generalPrecession = sunit.AngleFromDeg(1.3969713)

/* Low precision ephemeris: good to a few 1e-4 AU, which is a few tens of ms of light time. */

// eclipticOfDate converts ecliptic coordinates of date (km) into an
// equatorial J2000 vector, removing the precession accumulated since J2000.
func eclipticOfDate(λ, β sunit.Angle, r, T float64) r3.Vec {
	λ -= sunit.Angle(generalPrecession.Rad() * T)
	return Ecliptic2Equatorial(r3.Scale(r, Spherical2Cartesian(λ.Rad(), β.Rad())))
}

// SunPosition returns the geometric geocentric position of the Sun in km, in J2000 equatorial coordinates.
func SunPosition(jd JulianDate) r3.Vec {
	T := base.J2000Century(jd.Days())
	s, _ := solar.True(T)
	return eclipticOfDate(s, 0, solar.Radius(T)*AU, T)
}

// MoonPosition returns the geocentric position of the Moon in km, in J2000 equatorial coordinates.
func MoonPosition(jd JulianDate) r3.Vec {
	λ, β, Δ := moonposition.Position(jd.Days())
	return eclipticOfDate(λ, β, Δ, base.J2000Century(jd.Days()))
}

// SunBarycentric returns the position of the Sun relative to the solar system barycenter in km,
// in J2000 equatorial coordinates, from the reflex of the giant planets.
func SunBarycentric(jd JulianDate) r3.Vec {
	var reflex r3.Vec
	total := 1.0
	for _, planet := range giantPlanets {
		reflex = r3.Add(reflex, r3.Scale(planet.MassRatio(), planet.MeanHelioPosition(jd)))
		total += planet.MassRatio()
	}
	return Ecliptic2Equatorial(r3.Scale(-1/total, reflex))
}

// EarthBarycentric returns the position of the Earth relative to the solar system barycenter in km,
// in J2000 equatorial coordinates.
func EarthBarycentric(jd JulianDate) r3.Vec {
	// The solar theory follows the Earth-Moon barycenter.
	emb := r3.Scale(-1, SunPosition(jd))
	earthFromEMB := r3.Scale(-Moon.μ/(Earth.μ+Moon.μ), MoonPosition(jd))
	return r3.Add(r3.Add(emb, SunBarycentric(jd)), earthFromEMB)
}

// SunDirection returns the unit vector from the Earth to the Sun.
func SunDirection(jd JulianDate) r3.Vec {
	return unit(SunPosition(jd))
}

// SunSeparation returns the angle in radians between the Sun and the provided direction, as seen from the Earth.
func SunSeparation(jd JulianDate, dir Direction) float64 {
	c := r3.Dot(SunDirection(jd), unit(dir.Dir()))
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
