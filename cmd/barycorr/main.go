package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/giacomov/astro"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// barycorr corrects event times recorded on board for the light travel time to the solar
// system barycenter, the Shapiro delay and TDB-TT.

var (
	scenario    string
	input       string
	ra, dec     float64
	galactic    bool
	spacecraft  bool
	metricsAddr string
	verbose     bool
)

func init() {
	flag.StringVar(&scenario, "scenario", "", "orbit scenario TOML file (defaults to $"+astro.ConfigEnv+", then to the default orbit)")
	flag.StringVar(&input, "input", "-", "event times file, one mission elapsed second per line (- for stdin)")
	flag.Float64Var(&ra, "ra", 0, "source right ascension (or galactic longitude) in degrees")
	flag.Float64Var(&dec, "dec", 0, "source declination (or galactic latitude) in degrees")
	flag.BoolVar(&galactic, "galactic", false, "read -ra and -dec as galactic l and b")
	flag.BoolVar(&spacecraft, "spacecraft", true, "include the satellite position in the travel time")
	flag.StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.BoolVar(&verbose, "verbose", false, "log the orbit at the first event")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if err := run(logger); err != nil {
		logger.Log("level", "critical", "subsys", "barycorr", "err", err)
		os.Exit(1)
	}
}

func run(logger kitlog.Logger) error {
	conf, err := orbitConfig()
	if err != nil {
		return err
	}
	orbit, err := astro.NewOrbitModel(conf)
	if err != nil {
		return err
	}
	if verbose {
		orbit.LogStatus(logger, orbit.Epoch())
	}

	system := astro.Equatorial
	if galactic {
		system = astro.Galactic
	}
	dir := astro.NewSkyDir(ra, dec, system)
	logger.Log("level", "info", "subsys", "barycorr", "source", dir, "system", system)

	reg := prometheus.NewRegistry()
	c := &corrector{orbit: orbit, dir: dir, spacecraft: spacecraft, metrics: newMetrics(reg), logger: logger}
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Log("level", "error", "subsys", "metrics", "err", err)
			}
		}()
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	n, err := c.run(r, os.Stdout)
	if err != nil {
		return fmt.Errorf("after %d events: %w", n, err)
	}
	logger.Log("level", "notice", "subsys", "barycorr", "status", "finished", "events", n)
	return nil
}

func orbitConfig() (astro.OrbitConfig, error) {
	if scenario == "" {
		if path, err := astro.ConfigPath(); err == nil {
			scenario = path
		}
	}
	if scenario == "" {
		return astro.DefaultOrbitConfig(), nil
	}
	return astro.LoadOrbitConfig(scenario)
}
