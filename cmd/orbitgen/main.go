package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/giacomov/astro"
	kitlog "github.com/go-kit/kit/log"
)

// orbitgen samples the configured orbit and writes Cosmographia and CSV files.

var (
	scenario string
	outDir   string
	step     time.Duration
)

func init() {
	flag.StringVar(&scenario, "scenario", "", "orbit scenario TOML file (defaults to $"+astro.ConfigEnv+")")
	flag.StringVar(&outDir, "out", "", "output directory, overrides export.dir")
	flag.DurationVar(&step, "step", 0, "sampling step, overrides mission.step")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	fatal := func(err error) {
		logger.Log("level", "critical", "subsys", "orbitgen", "err", err)
		os.Exit(1)
	}

	if scenario == "" {
		path, err := astro.ConfigPath()
		if err != nil {
			fatal(err)
		}
		scenario = path
	}
	sc, err := astro.LoadScenario(scenario)
	if err != nil {
		fatal(err)
	}
	if outDir != "" {
		sc.Export.Dir = outDir
	}
	if step > 0 {
		sc.Step = step
	}
	if sc.Export.IsUseless() {
		logger.Log("level", "warning", "subsys", "orbitgen", "message", "export disabled, nothing will be written")
	}
	orbit, err := astro.NewOrbitModel(sc.Orbit)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	mission := astro.NewPreciseMission(orbit, sc.Start, sc.End, sc.Step, sc.Export)
	mission.SetLogger(logger)
	logger.Log("level", "info", "subsys", "orbitgen", "start", sc.Start, "end", sc.End, "step", sc.Step)
	if err := mission.Propagate(ctx); err != nil {
		fatal(err)
	}
}
