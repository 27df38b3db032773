package astro

import (
	"errors"
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitConfig defines the orbital elements of an Earth satellite.
// Angles are in degrees, distances in km and rates in degrees per day.
// Zero rates are derived from the J2 secular theory.
type OrbitConfig struct {
	Altitude     float64    // nominal altitude above the Earth radius
	Inclination  float64    // fixed inclination
	Eccentricity float64    // fixed eccentricity
	Epoch        JulianDate // reference epoch of the linear element laws
	MeanAnomaly  float64    // M at epoch
	RAAN         float64    // Ω at epoch
	ArgPerigee   float64    // ω at epoch

	MeanMotionRate float64 // dM/dt override
	NodeRate       float64 // dΩ/dt override
	PerigeeRate    float64 // dω/dt override
}

// DefaultOrbitConfig returns the reference satellite orbit: 550 km, 25.6° and near circular.
// The epoch is the mission elapsed time origin and an ascending node crossing.
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{Altitude: 550, Inclination: 25.6, Eccentricity: 0.0006, Epoch: MissionEpoch}
}

// Validate returns an error if the configuration cannot describe a bound Earth orbit.
func (c OrbitConfig) Validate() error {
	for name, v := range map[string]float64{
		"altitude": c.Altitude, "inclination": c.Inclination, "eccentricity": c.Eccentricity,
		"epoch": c.Epoch.Days(), "mean anomaly": c.MeanAnomaly, "RAAN": c.RAAN, "argument of perigee": c.ArgPerigee,
		"mean motion rate": c.MeanMotionRate, "node rate": c.NodeRate, "perigee rate": c.PerigeeRate,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", name)
		}
	}
	if c.Eccentricity < 0 || c.Eccentricity >= 1 {
		return fmt.Errorf("eccentricity %f not in [0, 1)", c.Eccentricity)
	}
	if Earth.Radius+c.Altitude <= 0 {
		return errors.New("semi major axis must be positive")
	}
	if c.Epoch == 0 {
		return errors.New("epoch is not set")
	}
	return nil
}

// OrbitModel computes the position of an Earth satellite from fixed orbital elements
// subject to secular node, perigee and mean motion rates.
// It is immutable and safe for concurrent use.
type OrbitModel struct {
	epoch    JulianDate
	M0, dMdt float64 // rad, rad/day
	Ω0, dΩdt float64 // rad, rad/day
	ω0, dωdt float64 // rad, rad/day
	a, alt   float64 // km
	i, e     float64 // rad, unitless
	earth    CelestialObject
}

// NewOrbitModel returns an OrbitModel with all derived constants computed.
func NewOrbitModel(c OrbitConfig) (*OrbitModel, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orbit configuration: %w", err)
	}
	m := &OrbitModel{
		epoch: c.Epoch,
		M0:    Deg2rad(c.MeanAnomaly),
		Ω0:    Deg2rad(c.RAAN),
		ω0:    Deg2rad(c.ArgPerigee),
		alt:   c.Altitude,
		a:     Earth.Radius + c.Altitude,
		i:     c.Inclination * deg2rad,
		e:     c.Eccentricity,
		earth: Earth,
	}
	dMdt, dΩdt, dωdt := SecularRates(m.a, m.e, m.i, m.earth)
	m.dMdt = orDefault(c.MeanMotionRate*deg2rad, dMdt)
	m.dΩdt = orDefault(c.NodeRate*deg2rad, dΩdt)
	m.dωdt = orDefault(c.PerigeeRate*deg2rad, dωdt)
	if m.dMdt <= 0 {
		return nil, fmt.Errorf("mean motion rate must be positive, got %f deg/day", m.dMdt*r2d)
	}
	return m, nil
}

// MustOrbitModel is like NewOrbitModel but panics if the configuration is invalid.
func MustOrbitModel(c OrbitConfig) *OrbitModel {
	m, err := NewOrbitModel(c)
	if err != nil {
		panic(err)
	}
	return m
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// SecularRates returns the mean anomaly, node and perigee rates (rad/day) of an orbit
// with semi major axis a (km), eccentricity e and inclination i (rad) about the body,
// including the first order J2 secular terms.
func SecularRates(a, e, i float64, body CelestialObject) (dMdt, dΩdt, dωdt float64) {
	n := math.Sqrt(body.μ/math.Pow(a, 3)) * SecondsPerDay
	p := a * (1 - e*e)
	k := body.J(2) * math.Pow(body.Radius/p, 2)
	ci := math.Cos(i)
	dΩdt = -1.5 * n * k * ci
	dωdt = 0.75 * n * k * (5*ci*ci - 1)
	dMdt = n * (1 + 0.75*k*math.Sqrt(1-e*e)*(3*ci*ci-1))
	return
}

// Epoch returns the reference epoch of the model.
func (m *OrbitModel) Epoch() JulianDate {
	return m.epoch
}

// Inclination returns the inclination of the orbit in degrees.
func (m *OrbitModel) Inclination() float64 {
	return m.i * r2d
}

// Eccentricity returns the eccentricity of the orbit.
func (m *OrbitModel) Eccentricity() float64 {
	return m.e
}

// SemiMajorAxis returns the semi major axis in km.
func (m *OrbitModel) SemiMajorAxis() float64 {
	return m.a
}

// Altitude returns the nominal altitude in km.
func (m *OrbitModel) Altitude() float64 {
	return m.alt
}

// Apoapsis returns the apoapsis radius.
func (m *OrbitModel) Apoapsis() float64 {
	return m.a * (1 + m.e)
}

// Periapsis returns the periapsis radius.
func (m *OrbitModel) Periapsis() float64 {
	return m.a * (1 - m.e)
}

// Rates returns the mean anomaly, node and perigee rates in degrees per day.
func (m *OrbitModel) Rates() (dMdt, dΩdt, dωdt float64) {
	return m.dMdt * r2d, m.dΩdt * r2d, m.dωdt * r2d
}

// AnomalisticPeriod returns the perigee to perigee period in days, which is the period of Phase.
func (m *OrbitModel) AnomalisticPeriod() float64 {
	return twoπ / m.dMdt
}

// NodalPeriod returns the ascending node to ascending node period in days.
func (m *OrbitModel) NodalPeriod() float64 {
	return twoπ / (m.dMdt + m.dωdt)
}

// DateFromSeconds returns the Julian date of mission elapsed seconds.
func (m *OrbitModel) DateFromSeconds(seconds float64) JulianDate {
	return JulianDateFromSeconds(MissionEpoch, seconds)
}

// anomalies returns the eccentric and true anomalies along with Ω and ω at jd.
func (m *OrbitModel) anomalies(jd JulianDate) (E, ν, Ω, ω float64) {
	Δt := jd.Sub(m.epoch)
	M := normalizeRad(m.M0 + m.dMdt*Δt)
	E = MustSolveKepler(M, m.e)
	ν = TrueAnomaly(E, m.e)
	Ω = normalizeRad(m.Ω0 + m.dΩdt*Δt)
	ω = normalizeRad(m.ω0 + m.dωdt*Δt)
	return
}

// Position returns the satellite position (km) in inertial coordinates at jd.
func (m *OrbitModel) Position(jd JulianDate) r3.Vec {
	E, ν, Ω, ω := m.anomalies(jd)
	r := m.a * (1 - m.e*math.Cos(E))
	sν, cν := math.Sincos(ν)
	return PQW2ECI(m.i, ω, Ω, r3.Vec{X: r * cν, Y: r * sν})
}

// Velocity returns the two-body satellite velocity (km/s) in inertial coordinates at jd.
func (m *OrbitModel) Velocity(jd JulianDate) r3.Vec {
	_, ν, Ω, ω := m.anomalies(jd)
	p := m.a * (1 - m.e*m.e)
	sν, cν := math.Sincos(ν)
	vp := math.Sqrt(m.earth.μ / p)
	return PQW2ECI(m.i, ω, Ω, r3.Vec{X: -vp * sν, Y: vp * (m.e + cν)})
}

// Phase returns the orbital phase in [0, 1) since the ascending node was passed:
// the mean anomaly advanced from the epoch argument of perigee, as a fraction of a revolution.
// It grows linearly with the mean anomaly rate.
func (m *OrbitModel) Phase(jd JulianDate) float64 {
	M := m.M0 + m.dMdt*jd.Sub(m.epoch)
	phase := normalizeRad(m.ω0+M) / twoπ
	if phase >= 1 {
		phase = 0
	}
	return phase
}

// Elements returns the osculating a, e, i, Ω, ω, ν at jd (angles in radians).
func (m *OrbitModel) Elements(jd JulianDate) (a, e, i, Ω, ω, ν float64) {
	_, ν, Ω, ω = m.anomalies(jd)
	return m.a, m.e, m.i, Ω, ω, ν
}

// String implements the stringer interface.
func (m *OrbitModel) String() string {
	dMdt, dΩdt, dωdt := m.Rates()
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f M=%.3f dΩ/dt=%.4f°/d dω/dt=%.4f°/d dM/dt=%.4f°/d", m.a, m.e, m.Inclination(), Rad2deg(m.Ω0), Rad2deg(m.ω0), Rad2deg(m.M0), dΩdt, dωdt, dMdt)
}

// LogStatus logs the orbital elements of the model at jd.
func (m *OrbitModel) LogStatus(logger kitlog.Logger, jd JulianDate) {
	_, _, _, Ω, ω, ν := m.Elements(jd)
	logger.Log("level", "info", "subsys", "orbit", "date", jd, "orbit", m, "Ω", Rad2deg(Ω), "ω", Rad2deg(ω), "ν", Rad2deg(ν), "phase", m.Phase(jd))
}
