package main

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/giacomov/astro"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCorrector(spacecraft bool) *corrector {
	return &corrector{
		orbit:      astro.MustOrbitModel(astro.DefaultOrbitConfig()),
		dir:        astro.NewSkyDir(83.6331, 22.0145, astro.Equatorial),
		spacecraft: spacecraft,
		metrics:    newMetrics(prometheus.NewRegistry()),
		logger:     kitlog.NewNopLogger(),
	}
}

func TestRun(t *testing.T) {
	c := newTestCorrector(true)
	in := "# header\n239557417.0\n\nnot-a-number\n239557427.5 extra\n"
	var out bytes.Buffer
	n, err := c.run(strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 records, got %d lines", len(lines))
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("expected 3 fields in `%s`", line)
		}
		met, _ := strconv.ParseFloat(fields[0], 64)
		tdb, _ := strconv.ParseFloat(fields[1], 64)
		corr, _ := strconv.ParseFloat(fields[2], 64)
		if math.Abs(corr) > 520 {
			t.Fatalf("correction out of range: %f", corr)
		}
		if math.Abs(met+corr-tdb) > 1e-5 {
			t.Fatalf("tdb time %f != %f + %f", tdb, met, corr)
		}
	}
	if v := testutil.ToFloat64(c.metrics.eventsTotal.WithLabelValues("corrected")); v != 2 {
		t.Fatalf("expected 2 corrected events, got %f", v)
	}
	if v := testutil.ToFloat64(c.metrics.eventsTotal.WithLabelValues("invalid")); v != 1 {
		t.Fatalf("expected 1 invalid event, got %f", v)
	}
}

func TestCorrectionSpacecraftTerm(t *testing.T) {
	geo := newTestCorrector(false)
	sat := newTestCorrector(true)
	for _, met := range []float64{0, 1e3, 2.5e8} {
		d := math.Abs(sat.correction(met) - geo.correction(met))
		// The satellite is at most a few thousand km away from the Earth center.
		if limit := (astro.Earth.Radius + 600) / astro.SpeedOfLight; d > limit {
			t.Fatalf("spacecraft term %f s larger than %f s", d, limit)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	c := newTestCorrector(true)
	n, err := c.run(strings.NewReader(""), io.Discard)
	if err != nil || n != 0 {
		t.Fatalf("expected no events and no error, got %d and %v", n, err)
	}
}
