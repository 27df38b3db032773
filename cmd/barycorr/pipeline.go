package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/giacomov/astro"
	kitlog "github.com/go-kit/kit/log"
)

// corrector converts mission elapsed times at the satellite into barycentric TDB times.
type corrector struct {
	orbit      *astro.OrbitModel
	dir        astro.Direction
	spacecraft bool // include the satellite position in the travel time
	metrics    *metrics
	logger     kitlog.Logger
}

// correction returns the number of seconds to add to the event time.
func (c *corrector) correction(met float64) float64 {
	jd := c.orbit.DateFromSeconds(met)
	if c.spacecraft {
		return c.orbit.BarycentricCorrection(jd, c.dir)
	}
	return c.orbit.TravelTime(jd, c.dir) + c.orbit.TDBMinusTT(jd) - c.orbit.ShapiroDelay(jd, c.dir)
}

// run reads one event time per line and writes the event time, the corrected time and
// the correction. Blank lines and lines starting with # are skipped, malformed lines are
// logged and counted. It returns the number of corrected events.
func (c *corrector) run(r io.Reader, w io.Writer) (int, error) {
	scanner := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# met tdb_met correction")
	n := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		met, err := strconv.ParseFloat(strings.Fields(line)[0], 64)
		if err != nil || math.IsNaN(met) || math.IsInf(met, 0) {
			c.metrics.eventsTotal.WithLabelValues("invalid").Inc()
			c.logger.Log("level", "warning", "subsys", "barycorr", "line", lineNo, "err", fmt.Sprintf("cannot read `%s`", line))
			continue
		}
		corr := c.correction(met)
		c.metrics.eventsTotal.WithLabelValues("corrected").Inc()
		c.metrics.correctionSeconds.Observe(math.Abs(corr))
		fmt.Fprintf(bw, "%.6f %.6f %.9f\n", met, met+corr, corr)
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}
