package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitConfigFromTLE returns the orbital elements of a two-line element set at the provided date.
// The TLE is propagated with SGP4 to `at`, the state vector is converted to orbital elements and
// `at` becomes the epoch of the returned configuration. The mean motion is taken from the TLE.
func OrbitConfigFromTLE(line1, line2 string, at JulianDate) (OrbitConfig, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	// go-satellite calls log.Fatal on malformed input, so check the format first.
	if err := validateTLELines(line1, line2); err != nil {
		return OrbitConfig{}, fmt.Errorf("invalid TLE: %w", err)
	}
	revsPerDay, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return OrbitConfig{}, fmt.Errorf("invalid TLE mean motion: %w", err)
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return OrbitConfig{}, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}
	// SGP4 is fed whole seconds, so the epoch is rounded accordingly.
	t := at.Time().Round(time.Second)
	at = JulianDateFromTime(t)
	pos, vel := satellite.Propagate(sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	R := r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z}
	V := r3.Vec{X: vel.X, Y: vel.Y, Z: vel.Z}
	for _, v := range []float64{R.X, R.Y, R.Z, V.X, V.Y, V.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return OrbitConfig{}, fmt.Errorf("sgp4 propagation failed at %s", at)
		}
	}
	a, e, i, Ω, ω, ν := RV2COE(R, V, Earth)
	if e >= 1 {
		return OrbitConfig{}, fmt.Errorf("state at %s is not a bound orbit (e=%f)", at, e)
	}
	sν, cν := math.Sincos(ν)
	E := math.Atan2(math.Sqrt(1-e*e)*sν, e+cν)
	M := E - e*math.Sin(E)
	return OrbitConfig{
		Altitude:       a - Earth.Radius,
		Inclination:    i * r2d,
		Eccentricity:   e,
		Epoch:          at,
		MeanAnomaly:    Rad2deg(M),
		RAAN:           Rad2deg(Ω),
		ArgPerigee:     Rad2deg(ω),
		MeanMotionRate: revsPerDay * 360,
	}, nil
}

// validateTLELines performs format validation on TLE lines: length, line numbers,
// checksums and every numeric field read by the SGP4 initialization.
func validateTLELines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	for n, line := range []string{line1, line2} {
		if sum, ok := tleChecksum(line); !ok || line[68] != sum {
			return fmt.Errorf("line%d checksum mismatch: expected '%c', got '%c'", n+1, sum, line[68])
		}
	}
	packed := func(s string) string { return strings.Replace(s, " ", "", 2) }
	tleInts := map[string]string{
		"satellite number": strings.TrimSpace(line1[2:7]),
		"epoch year":       line1[18:20],
	}
	for name, field := range tleInts {
		if _, err := strconv.ParseInt(field, 10, 0); err != nil {
			return fmt.Errorf("%s %q: %w", name, field, err)
		}
	}
	tleFloats := map[string]string{
		"epoch day":           line1[20:32],
		"first derivative":    packed(line1[33:43]),
		"second derivative":   packed(line1[44:45] + "." + line1[45:50] + "e" + line1[50:52]),
		"bstar":               packed(line1[53:54] + "." + line1[54:59] + "e" + line1[59:61]),
		"inclination":         packed(line2[8:16]),
		"RAAN":                packed(line2[17:25]),
		"eccentricity":        "." + line2[26:33],
		"argument of perigee": packed(line2[34:42]),
		"mean anomaly":        packed(line2[43:51]),
		"mean motion":         packed(line2[52:63]),
	}
	for name, field := range tleFloats {
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return fmt.Errorf("%s %q: %w", name, field, err)
		}
	}
	return nil
}

// tleChecksum returns the modulo 10 checksum digit of the first 68 characters of a TLE line,
// where digits count for their value and minus signs for one. It fails on non ASCII checksums.
func tleChecksum(line string) (byte, bool) {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return byte('0' + sum%10), line[68] >= '0' && line[68] <= '9'
}

// RV2COE returns the orbital elements from the R and V vectors (km and km/s) about the body.
// Angles are in radians. From Vallado's RV2COE, page 113.
func RV2COE(R, V r3.Vec, c CelestialObject) (a, e, i, Ω, ω, ν float64) {
	hVec := r3.Cross(R, V)
	n := r3.Cross(r3.Vec{Z: 1}, hVec)
	v := r3.Norm(V)
	r := r3.Norm(R)
	ξ := (v*v)/2 - c.μ/r
	a = -c.μ / (2 * ξ)
	eVec := r3.Scale(1/c.μ, r3.Sub(r3.Scale(v*v-c.μ/r, R), r3.Scale(r3.Dot(R, V), V)))
	e = r3.Norm(eVec)
	i = math.Acos(hVec.Z / r3.Norm(hVec))
	ω = math.Acos(r3.Dot(n, eVec) / (r3.Norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec.Z < 0 {
		ω = 2*math.Pi - ω
	}
	Ω = math.Acos(n.X / r3.Norm(n))
	if math.IsNaN(Ω) {
		Ω = 0
	}
	if n.Y < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := r3.Dot(eVec, R) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && scalar.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = sign(cosν)
	}
	ν = math.Acos(cosν)
	if math.IsNaN(ν) {
		ν = 0
	}
	if r3.Dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)
	return
}
