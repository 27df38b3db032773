package astro

import (
	"fmt"
	"math"
)

const (
	keplerε       = 1e-12 // rad
	keplerMaxIter = 50
	keplerHighEcc = 0.8
)

// KeplerConvergenceError is returned when Kepler's equation did not converge within the
// allowed number of iterations, which only happens outside of elliptical orbits or for NaN input.
type KeplerConvergenceError struct {
	M, E       float64 // mean anomaly and last eccentric anomaly estimate (rad)
	Ecc        float64
	Iterations int
}

// Error implements the error interface.
func (e *KeplerConvergenceError) Error() string {
	return fmt.Sprintf("kepler: no convergence after %d iterations (M=%.10f rad, e=%g, last E=%.10f rad)", e.Iterations, e.M, e.Ecc, e.E)
}

// SolveKepler returns the eccentric anomaly E in [0, 2π) such that E - e·sin(E) = M.
// Newton iterations stop once successive estimates differ by less than 1e-12 rad. They start
// from E₀ = M, or from E₀ = π for e > 0.8 where M is a poor guess. Should Newton fail for an
// elliptical orbit, the root is bracketed in [0, 2π] and found by bisection.
func SolveKepler(M, e float64) (float64, error) {
	M = normalizeRad(M)
	if e == 0 {
		return M, nil
	}
	E := M
	if e > keplerHighEcc {
		E = math.Pi
	}
	for i := 1; i <= keplerMaxIter; i++ {
		sE, cE := math.Sincos(E)
		δ := (E - e*sE - M) / (1 - e*cE)
		E -= δ
		if math.Abs(δ) < keplerε {
			return normalizeRad(E), nil
		}
	}
	if e > 0 && e < 1 && !math.IsNaN(M) {
		return bisectKepler(M, e), nil
	}
	return 0, &KeplerConvergenceError{M: M, E: E, Ecc: e, Iterations: keplerMaxIter}
}

// bisectKepler finds the root of the monotonic E - e·sin(E) - M on [0, 2π].
func bisectKepler(M, e float64) float64 {
	lo, hi := 0.0, twoπ
	for hi-lo > keplerε {
		mid := (lo + hi) / 2
		if mid-e*math.Sin(mid) < M {
			lo = mid
		} else {
			hi = mid
		}
	}
	return normalizeRad((lo + hi) / 2)
}

// MustSolveKepler is like SolveKepler but panics on non convergence.
func MustSolveKepler(M, e float64) float64 {
	E, err := SolveKepler(M, e)
	if err != nil {
		panic(err)
	}
	return E
}

// TrueAnomaly returns the true anomaly ν in [0, 2π) from the eccentric anomaly.
func TrueAnomaly(E, e float64) float64 {
	sE, cE := math.Sincos(E)
	return normalizeRad(math.Atan2(math.Sqrt(1-e*e)*sE, cE-e))
}

// EquationOfCenter returns ν - M in (-π, π], the correction to the mean phase due to the eccentricity.
func EquationOfCenter(M, e float64) float64 {
	ν := TrueAnomaly(MustSolveKepler(M, e), e)
	δ := math.Mod(ν-normalizeRad(M), twoπ)
	if δ > math.Pi {
		δ -= twoπ
	} else if δ <= -math.Pi {
		δ += twoπ
	}
	return δ
}
