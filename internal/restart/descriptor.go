// Package restart produces the artifacts that resume a simulation from a
// checkpoint: the restart_config.txt descriptor and the generated
// restart_simulation.py driver.
package restart

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const ConfigName = "restart_config.txt"

var ErrNegativeStep = errors.New("restart: restart step must be non-negative")

// Descriptor records where a restarted run picks up. Paths are written by
// base name.
type Descriptor struct {
	Checkpoint   string
	Step         int
	Equilibrated string
	Trajectory   string
}

func (d Descriptor) Validate() error {
	if d.Checkpoint == "" {
		return errors.New("restart: checkpoint is required")
	}
	if d.Step < 0 {
		return ErrNegativeStep
	}
	return nil
}

// Lines returns the key=value lines in file order. Optional keys are left
// out when unset.
func (d Descriptor) Lines() []string {
	lines := []string{
		"restart=true",
		"checkpoint=" + filepath.Base(d.Checkpoint),
		fmt.Sprintf("restart_step=%d", d.Step),
	}
	if d.Equilibrated != "" {
		lines = append(lines, "equilibrated="+filepath.Base(d.Equilibrated))
	}
	if d.Trajectory != "" {
		lines = append(lines, "trajectory="+filepath.Base(d.Trajectory))
	}
	return lines
}

// WriteConfig writes the descriptor to dir/restart_config.txt and returns
// the file path.
func WriteConfig(dir string, d Descriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ConfigName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(f)
	for _, line := range d.Lines() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
