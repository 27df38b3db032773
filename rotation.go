package astro

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000 in degrees (IAU 1976).
const obliquityJ2000 = 23.4392911

// equatorialToGalactic rotates a J2000 equatorial vector into galactic coordinates.
var equatorialToGalactic = mat.NewDense(3, 3, []float64{
	-0.0548755604162154, -0.8734370902348850, -0.4838350155487132,
	0.4941094278755837, -0.4448296299600112, 0.7469822444972189,
	-0.8676661490190047, -0.1980763734312015, 0.4559837761750669,
})

// PQW2ECI converts a given vector from the perifocal frame to the inertial frame.
// The vector is rotated by ω about the orbit normal, then by i about the line of nodes,
// and finally by Ω about the polar axis.
func PQW2ECI(i, ω, Ω float64, vI r3.Vec) r3.Vec {
	var mulM mat.Dense
	mulM.Mul(R3(-Ω), R1(-i))
	mulM.Mul(&mulM, R3(-ω))
	return MxV33(&mulM, vI)
}

// R3R1R3 is the closed form of PQW2ECI's rotation matrix.
func R3R1R3(i, ω, Ω float64) *mat.Dense {
	si, ci := math.Sincos(i)
	sω, cω := math.Sincos(ω)
	sΩ, cΩ := math.Sincos(Ω)
	return mat.NewDense(3, 3, []float64{cΩ*cω - sΩ*sω*ci, -cΩ*sω - sΩ*cω*ci, sΩ * si,
		sΩ*cω + cΩ*sω*ci, cΩ*cω*ci - sΩ*sω, -cΩ * si,
		sω * si, cω * si, ci})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}

// Ecliptic2Equatorial converts an ecliptic J2000 vector to equatorial J2000.
func Ecliptic2Equatorial(v r3.Vec) r3.Vec {
	return MxV33(R1(-obliquityJ2000*deg2rad), v)
}

// Equatorial2Galactic converts an equatorial J2000 vector to galactic coordinates.
func Equatorial2Galactic(v r3.Vec) r3.Vec {
	return MxV33(equatorialToGalactic, v)
}

// Galactic2Equatorial converts a galactic vector to equatorial J2000.
func Galactic2Equatorial(v r3.Vec) r3.Vec {
	return MxV33(equatorialToGalactic.T(), v)
}
