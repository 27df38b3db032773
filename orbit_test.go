package astro

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestOrbitConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*OrbitConfig)
	}{
		{"hyperbolic", func(c *OrbitConfig) { c.Eccentricity = 1.2 }},
		{"negative eccentricity", func(c *OrbitConfig) { c.Eccentricity = -0.1 }},
		{"NaN inclination", func(c *OrbitConfig) { c.Inclination = math.NaN() }},
		{"infinite rate", func(c *OrbitConfig) { c.NodeRate = math.Inf(1) }},
		{"below the center", func(c *OrbitConfig) { c.Altitude = -7000 }},
		{"no epoch", func(c *OrbitConfig) { c.Epoch = 0 }},
		{"retrograde mean motion", func(c *OrbitConfig) { c.MeanMotionRate = -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultOrbitConfig()
			tt.edit(&conf)
			if _, err := NewOrbitModel(conf); err == nil {
				t.Fatal("expected an error")
			}
			assertPanic(t, func() {
				MustOrbitModel(conf)
			})
		})
	}
	if err := DefaultOrbitConfig().Validate(); err != nil {
		t.Fatalf("default configuration is invalid: %s", err)
	}
}

func TestSecularRates(t *testing.T) {
	// ISS like orbit regresses by about 5° per day.
	_, dΩdt, _ := SecularRates(Earth.Radius+400, 0, 51.6*deg2rad, Earth)
	if math.Abs(dΩdt*r2d+5.0) > 0.05 {
		t.Fatalf("dΩ/dt=%f °/day", dΩdt*r2d)
	}
	// Critical inclination freezes the perigee.
	_, _, dωdt := SecularRates(Earth.Radius+1000, 0.01, math.Acos(math.Sqrt(0.2)), Earth)
	if math.Abs(dωdt) > 1e-12 {
		t.Fatalf("dω/dt=%f at critical inclination", dωdt)
	}
	// Without J2, only the Keplerian mean motion is left.
	noJ2 := Earth
	noJ2.J2 = 0
	dMdt, dΩdt, dωdt := SecularRates(7000, 0.1, 0.5, noJ2)
	if dΩdt != 0 || dωdt != 0 || math.Abs(dMdt-math.Sqrt(Earth.μ/math.Pow(7000, 3))*SecondsPerDay) > eps {
		t.Fatalf("unexpected rates %f %f %f", dMdt, dΩdt, dωdt)
	}
}

func TestOrbitModelDefaults(t *testing.T) {
	m := MustOrbitModel(DefaultOrbitConfig())
	if m.Epoch() != MissionEpoch || m.Altitude() != 550 || m.Eccentricity() != 0.0006 {
		t.Fatalf("unexpected model %s", m)
	}
	if ok, err := floatEqual(m.Inclination(), 25.6); !ok {
		t.Fatalf("inclination: %s", err)
	}
	if minutes := m.NodalPeriod() * 24 * 60; minutes < 90 || minutes > 100 {
		t.Fatalf("nodal period of %f minutes", minutes)
	}
	_, dΩdt, dωdt := m.Rates()
	if dΩdt >= 0 || dωdt <= 0 {
		t.Fatalf("unexpected rate signs dΩ/dt=%f dω/dt=%f", dΩdt, dωdt)
	}
	if m.Periapsis() >= m.Apoapsis() {
		t.Fatal("periapsis above apoapsis")
	}
}

func TestOrbitModelRateOverride(t *testing.T) {
	conf := DefaultOrbitConfig()
	conf.MeanMotionRate = 5400
	conf.NodeRate = 1
	conf.PerigeeRate = -2
	dMdt, dΩdt, dωdt := MustOrbitModel(conf).Rates()
	for _, c := range [][2]float64{{dMdt, 5400}, {dΩdt, 1}, {dωdt, -2}} {
		if ok, err := floatEqual(c[0], c[1]); !ok {
			t.Fatalf("override ignored: %s", err)
		}
	}
}

func TestOrbitModelPosition(t *testing.T) {
	conf := DefaultOrbitConfig()
	conf.Eccentricity = 0.05
	m := MustOrbitModel(conf)
	for s := 0.0; s < 3*SecondsPerDay; s += 37 {
		r := r3.Norm(m.Position(m.DateFromSeconds(s)))
		if r < m.Periapsis()-1e-6 || r > m.Apoapsis()+1e-6 {
			t.Fatalf("radius %f out of [%f, %f] at %f s", r, m.Periapsis(), m.Apoapsis(), s)
		}
	}
	// The epoch is an ascending node crossing on the x axis.
	R := m.Position(MissionEpoch)
	if math.Abs(R.Z) > 1e-6 || R.X <= 0 || math.Abs(R.Y) > 1e-6 {
		t.Fatalf("unexpected epoch position %+v", R)
	}
	if V := m.Velocity(MissionEpoch); V.Z <= 0 {
		t.Fatalf("not ascending at epoch: %+v", V)
	}
}

func TestOrbitModelVelocity(t *testing.T) {
	m := MustOrbitModel(DefaultOrbitConfig())
	for s := 100.0; s < SecondsPerDay; s += 3600 {
		jd := m.DateFromSeconds(s)
		fd := r3.Scale(0.5, r3.Sub(m.Position(jd.AddSeconds(1)), m.Position(jd.AddSeconds(-1))))
		// The secular rates add a few tens of m/s to the two body velocity.
		if d := r3.Norm(r3.Sub(fd, m.Velocity(jd))); d > 0.05 {
			t.Fatalf("velocity off by %f km/s at %f s", d, s)
		}
	}
}

func TestOrbitModelPhase(t *testing.T) {
	m := MustOrbitModel(DefaultOrbitConfig())
	if p := m.Phase(MissionEpoch); p != 0 {
		t.Fatalf("phase at epoch: %f", p)
	}
	prev := -1.0
	wraps := 0
	for s := 0.0; s < m.AnomalisticPeriod()*SecondsPerDay*2.5; s += 10 {
		p := m.Phase(m.DateFromSeconds(s))
		if p < 0 || p >= 1 {
			t.Fatalf("phase %f out of [0, 1)", p)
		}
		if p < prev {
			wraps++
		}
		prev = p
	}
	if wraps != 2 {
		t.Fatalf("expected 2 wraps, got %d", wraps)
	}
	jd := MissionEpoch.AddDays(m.AnomalisticPeriod() / 4)
	if p := m.Phase(jd); math.Abs(p-0.25) > 1e-6 {
		t.Fatalf("phase at quarter period: %f", p)
	}
}

func TestOrbitModelPhasePeriodicity(t *testing.T) {
	tests := []struct {
		name string
		ecc  float64
	}{
		{"circular", 0},
		{"default", 0.0006},
		{"eccentric", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultOrbitConfig()
			conf.Eccentricity = tt.ecc
			conf.ArgPerigee = 35
			m := MustOrbitModel(conf)
			dMdt, _, _ := m.Rates()
			if ok, err := floatEqual(m.AnomalisticPeriod(), 360/dMdt); !ok {
				t.Fatalf("period: %s", err)
			}
			for _, δ := range []float64{0.001, 0.013, 0.04} {
				p0 := m.Phase(MissionEpoch.AddDays(δ))
				for k := 1.0; k <= 30; k += 7 {
					p := m.Phase(MissionEpoch.AddDays(δ + k*m.AnomalisticPeriod()))
					d := math.Abs(p - p0)
					if d > 0.5 {
						d = 1 - d
					}
					if d > 1e-7 {
						t.Fatalf("δ=%f k=%f: phase %f != %f", δ, k, p, p0)
					}
				}
			}
		})
	}
}

func TestOrbitModelEpochRadius(t *testing.T) {
	m := MustOrbitModel(DefaultOrbitConfig())
	if d := r3.Norm(m.Position(MissionEpoch)) - (Earth.Radius + 550); math.Abs(d) > 5 {
		t.Fatalf("epoch radius is %f km off the nominal altitude", d)
	}
	if p := m.Phase(MissionEpoch); p != 0 {
		t.Fatalf("phase at the epoch node crossing: %f", p)
	}
}

func TestOrbitModelElements(t *testing.T) {
	conf := OrbitConfig{Altitude: 700, Inclination: 30, Eccentricity: 0.1, Epoch: J2000, MeanAnomaly: 10, RAAN: 40, ArgPerigee: 60}
	m := MustOrbitModel(conf)
	jd := J2000.AddDays(0.37)
	a, e, i, Ω, ω, ν := m.Elements(jd)
	a2, e2, i2, Ω2, ω2, ν2 := RV2COE(m.Position(jd), m.Velocity(jd), Earth)
	for _, c := range [][2]float64{{a / 1000, a2 / 1000}, {e, e2}, {i, i2}} {
		if math.Abs(c[0]-c[1]) > 1e-8 {
			t.Fatalf("%f != %f", c[0], c[1])
		}
	}
	for _, c := range [][2]float64{{Ω, Ω2}, {ω, ω2}, {ν, ν2}} {
		if d := math.Abs(normalizeRad(c[0]-c[1]+math.Pi) - math.Pi); d > 1e-7 {
			t.Fatalf("angle %f != %f", c[0], c[1])
		}
	}
}
