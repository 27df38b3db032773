package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// SpeedOfLight in km/s.
	SpeedOfLight = 299792.458
)

// CelestialObject defines a celestial object.
// The mean longitude law (L0 + Ldot·T, degrees and degrees per Julian century) only
// serves the barycentric reflex of the Sun, hence circular ecliptic orbits.
type CelestialObject struct {
	Name   string
	Radius float64 // km
	a      float64 // heliocentric semi-major axis (km)
	μ      float64 // km^3/s^2
	J2     float64
	L0     float64 // mean longitude at J2000 (deg)
	Ldot   float64 // mean longitude rate (deg per Julian century)
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// J returns the perturbing J_n factor for the provided n.
// Only J2 is supported.
func (c CelestialObject) J(n uint8) float64 {
	if n == 2 {
		return c.J2
	}
	return 0.0
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// MassRatio returns the mass of this object relative to the Sun.
func (c CelestialObject) MassRatio() float64 {
	return c.μ / Sun.μ
}

// MeanHelioPosition returns the heliocentric ecliptic J2000 position (km) of this planet
// assuming a circular orbit on its mean longitude.
func (c CelestialObject) MeanHelioPosition(jd JulianDate) r3.Vec {
	if c.a <= 0 {
		return r3.Vec{}
	}
	L := Deg2rad(c.L0 + c.Ldot*jd.Centuries())
	s, co := math.Sincos(L)
	return r3.Vec{X: c.a * co, Y: c.a * s}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, -1, 1.32712440017987e11, 0, 0, 0}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363, 149598023, 3.98600433e5, 1082.6269e-6, 100.46457166, 35999.37244981}

// Moon only matters for the Earth's reflex about the Earth-Moon barycenter.
var Moon = CelestialObject{"Moon", 1737.4, -1, 4.902800066e3, 202.7e-6, 0, 0}

// Jupiter is big.
var Jupiter = CelestialObject{"Jupiter", 71492.0, 778298361, 1.266865361e8, 0.01475, 34.39644051, 3034.74612775}

// Saturn floats and that's really cool.
var Saturn = CelestialObject{"Saturn", 60268.0, 1429394133, 3.7931208e7, 0.01645, 49.95424423, 1222.49362201}

// Uranus is no joke.
var Uranus = CelestialObject{"Uranus", 25559.0, 2875038615, 5.7939513e6, 0.012, 313.23810451, 428.48202785}

// Neptune closes the list of bodies with a measurable solar reflex.
var Neptune = CelestialObject{"Neptune", 24764.0, 4504449769, 6.836529e6, 0.003411, -55.12002969, 218.45945325}

// giantPlanets drive the Sun's motion about the solar system barycenter.
var giantPlanets = []CelestialObject{Jupiter, Saturn, Uranus, Neptune}
