package astro

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the default scenario path.
const ConfigEnv = "ASTRO_CONFIG"

// ConfigPath returns the scenario path from the ASTRO_CONFIG environment variable.
func ConfigPath() (string, error) {
	confPath := os.Getenv(ConfigEnv)
	if confPath == "" {
		return "", fmt.Errorf("environment variable `%s` is missing or empty", ConfigEnv)
	}
	return confPath, nil
}

// LoadOrbitConfig reads the orbital elements from a scenario file (TOML, YAML or JSON).
//
// A [tle] section with line1 and line2 takes precedence over the [orbit] section, and is
// evaluated at orbit.epoch. Missing [orbit] keys default to DefaultOrbitConfig. Epochs are
// either a Julian date or a date.
func LoadOrbitConfig(path string) (OrbitConfig, error) {
	v, err := readScenario(path)
	if err != nil {
		return OrbitConfig{}, err
	}
	return OrbitConfigFromViper(v)
}

// OrbitConfigFromViper builds an OrbitConfig from an already loaded scenario.
func OrbitConfigFromViper(v *viper.Viper) (OrbitConfig, error) {
	def := DefaultOrbitConfig()
	v.SetDefault("orbit.altitude", def.Altitude)
	v.SetDefault("orbit.inclination", def.Inclination)
	v.SetDefault("orbit.eccentricity", def.Eccentricity)

	epoch := def.Epoch
	if v.IsSet("orbit.epoch") {
		jd, err := confReadJD(v, "orbit.epoch")
		if err != nil {
			return OrbitConfig{}, err
		}
		epoch = jd
	}

	if v.IsSet("tle.line1") || v.IsSet("tle.line2") {
		conf, err := OrbitConfigFromTLE(v.GetString("tle.line1"), v.GetString("tle.line2"), epoch)
		if err != nil {
			return OrbitConfig{}, fmt.Errorf("scenario TLE: %w", err)
		}
		return conf, nil
	}

	conf := OrbitConfig{
		Altitude:       v.GetFloat64("orbit.altitude"),
		Inclination:    v.GetFloat64("orbit.inclination"),
		Eccentricity:   v.GetFloat64("orbit.eccentricity"),
		Epoch:          epoch,
		MeanAnomaly:    v.GetFloat64("orbit.meanAnomaly"),
		RAAN:           v.GetFloat64("orbit.RAAN"),
		ArgPerigee:     v.GetFloat64("orbit.argPeri"),
		MeanMotionRate: v.GetFloat64("rates.meanMotion"),
		NodeRate:       v.GetFloat64("rates.node"),
		PerigeeRate:    v.GetFloat64("rates.perigee"),
	}
	if err := conf.Validate(); err != nil {
		return OrbitConfig{}, fmt.Errorf("scenario orbit: %w", err)
	}
	return conf, nil
}

// Scenario is a complete orbit generation scenario.
type Scenario struct {
	Orbit      OrbitConfig
	Start, End JulianDate
	Step       time.Duration
	Export     ExportConfig
}

// LoadScenario reads the orbit along with the [mission] span and the [export] section.
// The span defaults to one day from the orbit epoch with the default step size.
func LoadScenario(path string) (Scenario, error) {
	v, err := readScenario(path)
	if err != nil {
		return Scenario{}, err
	}
	conf, err := OrbitConfigFromViper(v)
	if err != nil {
		return Scenario{}, err
	}
	sc := Scenario{Orbit: conf, Start: conf.Epoch, End: conf.Epoch.AddDays(1), Step: StepSize}
	if v.IsSet("mission.start") {
		if sc.Start, err = confReadJD(v, "mission.start"); err != nil {
			return Scenario{}, err
		}
	}
	if v.IsSet("mission.end") {
		if sc.End, err = confReadJD(v, "mission.end"); err != nil {
			return Scenario{}, err
		}
	} else if v.IsSet("mission.days") {
		sc.End = sc.Start.AddDays(v.GetFloat64("mission.days"))
	}
	if v.IsSet("mission.step") {
		sc.Step = v.GetDuration("mission.step")
	}
	if sc.Step <= 0 {
		return Scenario{}, fmt.Errorf("mission.step must be positive, got %s", sc.Step)
	}
	if sc.End.Sub(sc.Start) < 0 {
		return Scenario{}, errors.New("mission.end is before mission.start")
	}
	sc.Export = ExportConfig{
		Filename: v.GetString("export.filename"),
		Dir:      v.GetString("export.dir"),
		Cosmo:    v.GetBool("export.cosmo"),
		AsCSV:    v.GetBool("export.csv"),
	}
	if sc.Export.Filename == "" {
		sc.Export.Filename = "orbit"
	}
	return sc, nil
}

func readScenario(path string) (*viper.Viper, error) {
	if path == "" {
		return nil, errors.New("no scenario path provided")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// confReadJD reads a key which is either a Julian date or a date.
func confReadJD(v *viper.Viper, key string) (JulianDate, error) {
	if jd := v.GetFloat64(key); jd != 0 {
		return JulianDateFromDays(jd), nil
	}
	dt := v.GetTime(key)
	if dt.IsZero() {
		return 0, fmt.Errorf("could not read `%s` as a Julian date or a date", key)
	}
	return JulianDateFromTime(dt), nil
}
