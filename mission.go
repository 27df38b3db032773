package astro

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// StepSize is the default sampling step of a mission.
	StepSize = 60 * time.Second
	// maxSamples is a hard limit on the number of samples of a single mission.
	maxSamples = 10000000
)

// Mission samples an orbit model over a span of time and streams the states to the exporter.
type Mission struct {
	Orbit           *OrbitModel
	StartJD, StopJD JulianDate
	CurrentJD       JulianDate
	step            time.Duration
	conf            ExportConfig
	logger          kitlog.Logger
}

// NewMission is the same as NewPreciseMission with the default step size.
func NewMission(o *OrbitModel, start, end JulianDate, conf ExportConfig) *Mission {
	return NewPreciseMission(o, start, end, StepSize, conf)
}

// NewPreciseMission returns a new Mission instance with custom provided time step.
func NewPreciseMission(o *OrbitModel, start, end JulianDate, step time.Duration, conf ExportConfig) *Mission {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "mission", conf.Filename)
	return &Mission{Orbit: o, StartJD: start, StopJD: end, CurrentJD: start, step: step, conf: conf, logger: logger}
}

// SetLogger replaces the default logfmt logger.
func (a *Mission) SetLogger(logger kitlog.Logger) {
	a.logger = logger
}

// LogStatus logs the status of the propagation.
func (a *Mission) LogStatus() {
	a.Orbit.LogStatus(a.logger, a.CurrentJD)
}

// Propagate samples the orbit until the stop date is reached or the context is cancelled.
// It returns once all the files are written.
func (a *Mission) Propagate(ctx context.Context) error {
	if a.step <= 0 {
		return fmt.Errorf("invalid step %s", a.step)
	}
	if a.StopJD.Sub(a.StartJD) < 0 {
		return errors.New("stop date is before start date")
	}
	// A millisecond of slack absorbs the rounding of Julian dates.
	// The count is bounded before the integer conversion, which would overflow.
	n := math.Floor((a.StopJD.SecondsSince(a.StartJD)+1e-3)/a.step.Seconds()) + 1
	if n > maxSamples {
		return fmt.Errorf("%.0f samples requested, limit is %d", n, maxSamples)
	}
	nSamples := int(n)

	var wg sync.WaitGroup
	var histChan chan State
	var exportErr error
	if !a.conf.IsUseless() {
		histChan = make(chan State, 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			exportErr = StreamStates(a.conf, histChan)
		}()
	}

	a.LogStatus()
	var err error
	for k := 0; k < nSamples; k++ {
		if err = ctx.Err(); err != nil {
			a.logger.Log("level", "warning", "subsys", "astro", "status", "stopped", "samples", k)
			break
		}
		a.CurrentJD = a.StartJD.AddSeconds(float64(k) * a.step.Seconds())
		if histChan != nil {
			histChan <- a.Orbit.StateAt(a.CurrentJD)
		}
	}
	if histChan != nil {
		close(histChan)
	}
	wg.Wait() // Don't return until we're done writing all the files.

	duration := a.CurrentJD.Sub(a.StartJD)
	a.logger.Log("level", "notice", "subsys", "astro", "status", "finished", "duration(d)", fmt.Sprintf("%.3f", duration))
	a.LogStatus()
	if err != nil {
		return err
	}
	return exportErr
}
