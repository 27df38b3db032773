package astro

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is a sample of the orbit model.
type State struct {
	JD       JulianDate
	R, V     r3.Vec  // km, km/s
	Phase    float64 // since the ascending node
	Ω, ω, ν  float64 // rad
	Distance float64 // km
}

// StateAt samples the orbit model at jd.
func (m *OrbitModel) StateAt(jd JulianDate) State {
	R := m.Position(jd)
	_, _, _, Ω, ω, ν := m.Elements(jd)
	return State{JD: jd, R: R, V: m.Velocity(jd), Phase: m.Phase(jd), Ω: Ω, ω: ω, ν: ν, Distance: r3.Norm(R)}
}

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState definition.
type CgInterpolatedState struct {
	JD       float64
	Position r3.Vec
	Velocity r3.Vec
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	var vals [7]float64
	for k, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("field %d: %w", k, err)
		}
		vals[k] = val
	}
	i.JD = vals[0]
	i.Position = r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]}
	i.Velocity = r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]}
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position.X, i.Position.Y, i.Position.Z, i.Velocity.X, i.Velocity.Y, i.Velocity.Z)
}

// ParseInterpolatedStates reads the records of an interpolated states (xyzv) file.
func ParseInterpolatedStates(r io.Reader) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, nil
}

// ExportConfig configures the exporting of orbit states.
type ExportConfig struct {
	Filename string
	Dir      string // output directory
	Cosmo    bool   // Cosmographia interpolated states and catalog
	AsCSV    bool   // elements and phase as CSV
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) path(format string, args ...interface{}) string {
	return filepath.Join(c.Dir, fmt.Sprintf(format, args...))
}

// StreamStates writes the states of the channel until it is closed.
// The channel is drained even if writing fails, and the first error is returned.
func StreamStates(conf ExportConfig, stateChan <-chan State) (err error) {
	var first, last *State
	var fXYZV, fCSV *os.File
	var w *csv.Writer
	fail := func(e error) {
		if err == nil {
			err = e
		}
	}
	defer func() {
		for range stateChan {
		}
	}()

	if conf.Cosmo {
		if fXYZV, err = os.Create(conf.path("orbit-%s.xyzv", conf.Filename)); err != nil {
			return err
		}
		defer fXYZV.Close()
		fmt.Fprintf(fXYZV, "# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>\n#   Position in km\n#   Velocity in km/sec")
	}
	if conf.AsCSV {
		if fCSV, err = os.Create(conf.path("orbit-%s.csv", conf.Filename)); err != nil {
			return err
		}
		defer fCSV.Close()
		w = csv.NewWriter(fCSV)
		defer w.Flush()
		fail(w.Write([]string{"jd", "date", "x", "y", "z", "r", "Omega", "omega", "nu", "phase"}))
	}

	for state := range stateChan {
		state := state
		if first == nil {
			first = &state
		}
		last = &state
		if conf.Cosmo && err == nil {
			asTxt := CgInterpolatedState{JD: state.JD.Days(), Position: state.R, Velocity: state.V}
			if _, werr := fXYZV.WriteString("\n" + asTxt.ToText()); werr != nil {
				fail(werr)
			}
		}
		if conf.AsCSV && err == nil {
			fail(w.Write([]string{
				strconv.FormatFloat(state.JD.Days(), 'f', 8, 64), state.JD.String(),
				fmtKm(state.R.X), fmtKm(state.R.Y), fmtKm(state.R.Z), fmtKm(state.Distance),
				fmtDeg(state.Ω), fmtDeg(state.ω), fmtDeg(state.ν),
				strconv.FormatFloat(state.Phase, 'f', 6, 64),
			}))
		}
	}

	if conf.Cosmo && first != nil && err == nil {
		fmt.Fprintf(fXYZV, "\n# Simulation time end: %s\n", last.JD)
		traj := CgTrajectory{Type: "InterpolatedStates", Source: fmt.Sprintf("orbit-%s.xyzv", conf.Filename)}
		color := []float64{0.6, 1, 1}
		days := int(last.JD.Sub(first.JD)) + 1
		item := &CgItems{Class: "spacecraft", Name: conf.Filename, StartTime: first.JD.String(), EndTime: last.JD.String(),
			Center: Earth.Name, TrajectoryFrame: "ICRF", Trajectory: &traj,
			Label:          &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
			TrajectoryPlot: &CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: fmt.Sprintf("%d d", days), Lead: "0 d", SampleCount: 10}}
		c := CgCatalog{Version: "1.0", Name: conf.Filename, Items: []*CgItems{item}}
		marsh, merr := json.MarshalIndent(c, "", "  ")
		if merr != nil {
			return merr
		}
		fail(os.WriteFile(conf.path("catalog-%s.json", conf.Filename), marsh, 0o644))
	}
	if w != nil {
		w.Flush()
		fail(w.Error())
	}
	return err
}

func fmtKm(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func fmtDeg(v float64) string {
	return strconv.FormatFloat(Rad2deg(v), 'f', 4, 64)
}
