// Package detect locates job files inside an existing simulation directory.
//
// Only direct entries are considered. Roles that accumulate files over time
// (checkpoints, trajectories) resolve to the newest candidate; the others
// resolve to the first candidate in name order.
package detect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/openmmdl/openmmdl-cli/internal/jobfile"
)

// RestartScript is the driver name written by the restart command. It is
// never picked up as the user's own script.
const RestartScript = "restart_simulation.py"

// ErrNoMatch is returned when no entry qualifies for a role.
var ErrNoMatch = errors.New("detect: no matching file")

type candidate struct {
	path    string
	name    string
	modTime time.Time
}

// FindFilesByExtension returns the regular files directly inside dir whose
// names end with one of exts, sorted by name.
func FindFilesByExtension(dir string, exts ...string) ([]string, error) {
	cands, err := scan(dir, exts)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(cands))
	for i, c := range cands {
		paths[i] = c.path
	}
	return paths, nil
}

func scan(dir string, exts []string) ([]candidate, error) {
	if len(exts) == 0 {
		panic("detect: extension list must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []candidate
	for _, e := range entries {
		if e.IsDir() || !jobfile.HasExt(e.Name(), exts...) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, candidate{
			path:    filepath.Join(dir, e.Name()),
			name:    e.Name(),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// ByNewest returns the files matching exts, most recently modified first.
// Equal modification times keep name order.
func ByNewest(dir string, exts ...string) ([]string, error) {
	cands, err := scan(dir, exts)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].modTime.After(cands[j].modTime) })
	paths := make([]string, len(cands))
	for i, c := range cands {
		paths[i] = c.path
	}
	return paths, nil
}

// Newest returns the most recently modified file matching exts. Equal
// modification times resolve to the smallest name.
func Newest(dir string, exts ...string) (string, error) {
	cands, err := scan(dir, exts)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrNoMatch, strings.Join(exts, ", "), dir)
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.modTime.After(best.modTime) {
			best = c
		}
	}
	return best.path, nil
}

// First returns the first file matching exts in name order, skipping the
// names in exclude.
func First(dir string, exts []string, exclude ...string) (string, error) {
	cands, err := scan(dir, exts)
	if err != nil {
		return "", err
	}
	for _, c := range cands {
		if slices.Contains(exclude, c.name) {
			continue
		}
		return c.path, nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNoMatch, strings.Join(exts, ", "), dir)
}

// Checkpoint returns the newest .chk file in dir.
func Checkpoint(dir string) (string, error) {
	return Newest(dir, jobfile.Lookup(jobfile.Checkpoint).Extensions...)
}

// Trajectory returns the newest .dcd file in dir.
func Trajectory(dir string) (string, error) {
	return Newest(dir, jobfile.Lookup(jobfile.Trajectory).Extensions...)
}

// Script returns the user's simulation script, ignoring the generated
// restart driver.
func Script(dir string) (string, error) {
	return First(dir, jobfile.Lookup(jobfile.Script).Extensions, RestartScript)
}

// Topology returns the first PDB or prmtop file in dir.
func Topology(dir string) (string, error) {
	return First(dir, jobfile.Lookup(jobfile.Topology).Extensions)
}

// Coordinate returns the first Amber inpcrd file in dir.
func Coordinate(dir string) (string, error) {
	return First(dir, jobfile.Lookup(jobfile.Coordinate).Extensions)
}

// Role dispatches to the finder for r. Roles without a finder report
// ErrNoMatch.
func Role(dir string, r jobfile.Role) (string, error) {
	switch r {
	case jobfile.Checkpoint:
		return Checkpoint(dir)
	case jobfile.Trajectory:
		return Trajectory(dir)
	case jobfile.Script:
		return Script(dir)
	case jobfile.Topology:
		return Topology(dir)
	case jobfile.Coordinate:
		return Coordinate(dir)
	default:
		return "", fmt.Errorf("%w: no finder for role %s", ErrNoMatch, r)
	}
}
