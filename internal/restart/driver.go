package restart

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"
	"unicode/utf8"

	"github.com/openmmdl/openmmdl-cli/internal/jobfile"
)

// ScriptName is the file the driver is written to inside the job directory.
const ScriptName = "restart_simulation.py"

// DefaultCoordinate is used for Amber topologies when no inpcrd was found.
const DefaultCoordinate = "coordinates.inpcrd"

//go:embed driver.py.tmpl
var driverSource string

var driverTemplate = template.Must(template.New("driver").
	Funcs(template.FuncMap{"py": strconv.Quote}).
	Parse(driverSource))

var (
	ErrMissingField = errors.New("restart: missing driver field")
	ErrStepRange    = errors.New("restart: total steps before restart step")
	ErrInvalidName  = errors.New("restart: file name is not valid UTF-8")
)

// Driver holds everything the generated restart script needs. File fields
// may be full paths; only base names end up in the script, which runs from
// inside the job directory.
type Driver struct {
	Topology   string
	Coordinate string
	Checkpoint string
	Script     string
	Step       int
	// TotalSteps overrides the `steps` variable of the original script
	// when positive.
	TotalSteps int
}

func (d Driver) Amber() bool {
	return jobfile.IsAmber(d.Topology)
}

func (d Driver) Validate() error {
	switch {
	case d.Topology == "":
		return fmt.Errorf("%w: topology", ErrMissingField)
	case d.Checkpoint == "":
		return fmt.Errorf("%w: checkpoint", ErrMissingField)
	case d.Script == "":
		return fmt.Errorf("%w: script", ErrMissingField)
	case d.Step < 0:
		return ErrNegativeStep
	case d.TotalSteps > 0 && d.TotalSteps < d.Step:
		return fmt.Errorf("%w: %d < %d", ErrStepRange, d.TotalSteps, d.Step)
	}
	// Quoted names are read back by Python; a \xNN escape of a stray byte
	// would name a different file there.
	for _, name := range []string{d.Topology, d.Coordinate, d.Checkpoint, d.Script} {
		if base := filepath.Base(name); name != "" && !utf8.ValidString(base) {
			return fmt.Errorf("%w: %q", ErrInvalidName, base)
		}
	}
	return nil
}

type driverView struct {
	Topology   string
	Coordinate string
	Checkpoint string
	Script     string
	Step       int
	TotalSteps int
	Amber      bool
}

func (d Driver) view() driverView {
	v := driverView{
		Topology:   filepath.Base(d.Topology),
		Checkpoint: filepath.Base(d.Checkpoint),
		Script:     filepath.Base(d.Script),
		Step:       d.Step,
		TotalSteps: d.TotalSteps,
		Amber:      d.Amber(),
	}
	if v.Amber {
		v.Coordinate = DefaultCoordinate
		if d.Coordinate != "" {
			v.Coordinate = filepath.Base(d.Coordinate)
		}
	}
	return v
}

// Render returns the driver script source.
func (d Driver) Render() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := driverTemplate.Execute(&buf, d.view()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the driver into dir and returns the script path.
func (d Driver) Write(dir string) (string, error) {
	src, err := d.Render()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ScriptName)
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", err
	}
	return path, nil
}
