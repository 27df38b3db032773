package astro

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distmv"
)

const eps = 1e-9

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func floatEqual(a, b float64) (bool, error) {
	if !scalar.EqualWithinAbs(a, b, eps) {
		return false, fmt.Errorf("difference of %3.10f", math.Abs(a-b))
	}
	return true, nil
}

func vectorsEqual(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol) && scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

// anglesEqual returns whether two angles (rad) are equal modulo 2π.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Abs(normalizeRad(a) - normalizeRad(b))
	if diff < eps || math.Abs(diff-2*math.Pi) < eps {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10fπ", diff/math.Pi)
}

// randomDirections returns n isotropic unit vectors.
func randomDirections(t *testing.T, n int) []r3.Vec {
	normal, ok := distmv.NewNormal([]float64{0, 0, 0}, mat.NewDiagDense(3, []float64{1, 1, 1}), nil)
	if !ok {
		t.Fatal("covariance matrix not positive definite")
	}
	dirs := make([]r3.Vec, 0, n)
	for len(dirs) < n {
		s := normal.Rand(nil)
		v := r3.Vec{X: s[0], Y: s[1], Z: s[2]}
		if r3.Norm(v) < 1e-6 {
			continue
		}
		dirs = append(dirs, unit(v))
	}
	return dirs
}
