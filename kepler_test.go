package astro

import (
	"errors"
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/kepler"
	sunit "github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0006, 0.1, 0.3, 0.5, 0.9} {
		for M := -3.0; M < 10; M += 0.25 {
			E, err := SolveKepler(M, e)
			if err != nil {
				t.Fatalf("e=%f M=%f: %s", e, M, err)
			}
			if E < 0 || E >= 2*math.Pi {
				t.Fatalf("E=%f not in [0, 2π)", E)
			}
			if ok, err := anglesEqual(E-e*math.Sin(E), M); !ok {
				t.Fatalf("e=%f M=%f: %s", e, M, err)
			}
		}
	}
}

func TestSolveKeplerHighEccentricity(t *testing.T) {
	for _, e := range []float64{0.81, 0.95, 0.99, 0.995, 0.999} {
		for M := 0.0; M < 2*math.Pi; M += 0.001 {
			E, err := SolveKepler(M, e)
			if err != nil {
				t.Fatalf("e=%f M=%f: %s", e, M, err)
			}
			if ok, err := anglesEqual(E-e*math.Sin(E), M); !ok {
				t.Fatalf("e=%f M=%f: %s", e, M, err)
			}
		}
	}
	// Eccentric orbits stay usable from the model.
	conf := DefaultOrbitConfig()
	conf.Altitude = 30000
	conf.Eccentricity = 0.99
	m := MustOrbitModel(conf)
	for s := 0.0; s < SecondsPerDay; s += 61 {
		jd := m.DateFromSeconds(s)
		if r := r3.Norm(m.Position(jd)); r < m.Periapsis()-1e-6 || r > m.Apoapsis()+1e-6 {
			t.Fatalf("radius %f out of [%f, %f]", r, m.Periapsis(), m.Apoapsis())
		}
		if p := m.Phase(jd); p < 0 || p >= 1 {
			t.Fatalf("phase %f", p)
		}
	}
}

func TestBisectKepler(t *testing.T) {
	for _, e := range []float64{0.1, 0.9, 0.999} {
		for M := 0.05; M < 2*math.Pi; M += 0.5 {
			E := bisectKepler(M, e)
			if math.Abs(E-e*math.Sin(E)-M) > 1e-11 {
				t.Fatalf("e=%f M=%f: residual %g", e, M, E-e*math.Sin(E)-M)
			}
		}
	}
}

func TestSolveKeplerMeeus(t *testing.T) {
	for _, e := range []float64{0.0006, 0.1, 0.5} {
		for M := 0.1; M < math.Pi; M += 0.3 {
			exp := kepler.Kepler3(e, sunit.Angle(M))
			E := MustSolveKepler(M, e)
			if math.Abs(E-normalizeRad(exp.Rad())) > 1e-9 {
				t.Fatalf("e=%f M=%f: %f != %f", e, M, E, exp.Rad())
			}
		}
	}
}

func TestSolveKeplerFailure(t *testing.T) {
	_, err := SolveKepler(1, math.NaN())
	var kerr *KeplerConvergenceError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected a KeplerConvergenceError, got %v", err)
	}
	if kerr.Iterations != keplerMaxIter {
		t.Fatalf("unexpected iteration count %d", kerr.Iterations)
	}
	assertPanic(t, func() {
		MustSolveKepler(1, math.NaN())
	})
}

func TestTrueAnomaly(t *testing.T) {
	// Circular orbits have identical anomalies.
	for E := 0.0; E < 2*math.Pi; E += 0.5 {
		if ok, err := anglesEqual(TrueAnomaly(E, 0), E); !ok {
			t.Fatalf("E=%f: %s", E, err)
		}
	}
	// Apsides are shared by all anomalies.
	for _, e := range []float64{0.01, 0.7} {
		if ok, err := anglesEqual(TrueAnomaly(0, e), 0); !ok {
			t.Fatalf("perigee: %s", err)
		}
		if ok, err := anglesEqual(TrueAnomaly(math.Pi, e), math.Pi); !ok {
			t.Fatalf("apogee: %s", err)
		}
	}
}

func TestEquationOfCenter(t *testing.T) {
	e := 0.0167
	for M := 0.05; M < 2*math.Pi; M += 0.1 {
		C := EquationOfCenter(M, e)
		// First order series: C ≈ 2e·sin(M).
		if math.Abs(C-2*e*math.Sin(M)) > 1.5*e*e {
			t.Fatalf("M=%f: C=%f", M, C)
		}
	}
	if C := EquationOfCenter(1.2, 0); C != 0 {
		t.Fatalf("circular orbit has C=%f", C)
	}
}
