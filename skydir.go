package astro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CoordSystem identifies the frame of the angles given to NewSkyDir.
type CoordSystem uint8

const (
	// Galactic is a fixed direction with respect to the galactic coordinate system (l,b).
	Galactic CoordSystem = iota
	// Equatorial is a fixed direction with respect to the equatorial coordinate system (ra,dec) in the J2000 epoch.
	Equatorial
)

func (c CoordSystem) String() string {
	switch c {
	case Galactic:
		return "galactic"
	case Equatorial:
		return "equatorial"
	}
	panic(fmt.Errorf("unknown coordinate system %d", c))
}

// Direction is anything exposing a unit vector in the J2000 equatorial frame.
type Direction interface {
	Dir() r3.Vec
}

// SkyDir is an absolute direction on the sky, stored as a J2000 equatorial unit vector.
// All angles are in degrees.
type SkyDir struct {
	dir r3.Vec
}

// NewSkyDir returns the direction of the provided (ra, dec) or (l, b) pair in degrees.
func NewSkyDir(lon, lat float64, system CoordSystem) SkyDir {
	v := Spherical2Cartesian(lon*deg2rad, lat*deg2rad)
	if system == Galactic {
		v = Galactic2Equatorial(v)
	}
	return SkyDir{unit(v)}
}

// NewSkyDirFromVector returns the direction of the provided vector, which need not be normalized.
func NewSkyDirFromVector(v r3.Vec, system CoordSystem) SkyDir {
	if system == Galactic {
		v = Galactic2Equatorial(v)
	}
	return SkyDir{unit(v)}
}

// Dir returns the unit vector in the equatorial frame.
func (s SkyDir) Dir() r3.Vec {
	return s.dir
}

// RA returns the right ascension in degrees.
func (s SkyDir) RA() float64 {
	ra, _ := Cartesian2Spherical(s.dir)
	return ra * r2d
}

// Dec returns the declination in degrees.
func (s SkyDir) Dec() float64 {
	_, dec := Cartesian2Spherical(s.dir)
	return dec * r2d
}

// L returns the galactic longitude in degrees.
func (s SkyDir) L() float64 {
	l, _ := Cartesian2Spherical(Equatorial2Galactic(s.dir))
	return l * r2d
}

// B returns the galactic latitude in degrees.
func (s SkyDir) B() float64 {
	_, b := Cartesian2Spherical(Equatorial2Galactic(s.dir))
	return b * r2d
}

// Difference returns the opening angle in radians between two directions.
func (s SkyDir) Difference(o Direction) float64 {
	// atan2 of the cross and dot products keeps precision for tiny angles.
	od := unit(o.Dir())
	return math.Atan2(r3.Norm(r3.Cross(s.dir, od)), r3.Dot(s.dir, od))
}

// String implements the Stringer interface.
func (s SkyDir) String() string {
	return fmt.Sprintf("(ra=%.4f, dec=%.4f)", s.RA(), s.Dec())
}
