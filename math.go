package astro

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	r2d     = 180 / math.Pi
	twoπ    = 2 * math.Pi
)

// unit returns the unit vector of a given vector, or the zero vector if it has no length.
func unit(a r3.Vec) r3.Vec {
	n := r3.Norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, a)
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Spherical2Cartesian returns the Cartesian unit vector for a longitude and latitude in radians.
func Spherical2Cartesian(lon, lat float64) r3.Vec {
	sLon, cLon := math.Sincos(lon)
	sLat, cLat := math.Sincos(lat)
	return r3.Vec{X: cLat * cLon, Y: cLat * sLon, Z: sLat}
}

// Cartesian2Spherical returns the longitude in [0, 2π) and latitude of the provided vector in radians.
func Cartesian2Spherical(a r3.Vec) (lon, lat float64) {
	n := r3.Norm(a)
	if n == 0 {
		return 0, 0
	}
	lon = normalizeRad(math.Atan2(a.Y, a.X))
	lat = math.Asin(math.Max(-1, math.Min(1, a.Z/n)))
	return
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	return normalizeRad(a * deg2rad)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	return math.Mod(normalizeRad(a)*r2d, 360)
}

// normalizeRad wraps an angle into [0, 2π).
func normalizeRad(a float64) float64 {
	a = math.Mod(a, twoπ)
	if a < 0 {
		a += twoπ
	}
	return a
}
