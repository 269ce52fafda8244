package jobfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrWrongFormat is returned when a path carries none of a role's extensions.
var ErrWrongFormat = errors.New("jobfile: wrong format")

type Role string

const (
	Script       Role = "script"
	Topology     Role = "topology"
	Ligand       Role = "ligand"
	Coordinate   Role = "coordinate"
	Checkpoint   Role = "checkpoint"
	Equilibrated Role = "equilibrated"
	Trajectory   Role = "trajectory"
)

type Spec struct {
	Role        Role
	Description string   // used in "Wrong Format for ..." messages
	CopyLabel   string   // used in "Wrong ... path" messages
	Extensions  []string // leading dot included
}

var specs = map[Role]Spec{
	Script:       {Script, "script", "python script", []string{".py"}},
	Topology:     {Topology, "topology", "topology file", []string{".pdb", ".prmtop"}},
	Ligand:       {Ligand, "ligand", "ligand file", []string{".sdf", ".mol"}},
	Coordinate:   {Coordinate, "coordinate", "coordinates file", []string{".inpcrd"}},
	Checkpoint:   {Checkpoint, "checkpoint", "checkpoint file", []string{".chk"}},
	Equilibrated: {Equilibrated, "equilibrated topology", "equilibrated topology file", []string{".pdb"}},
	Trajectory:   {Trajectory, "trajectory", "trajectory file", []string{".dcd"}},
}

// Lookup returns the spec for a role. It panics on an unknown role.
func Lookup(r Role) Spec {
	s, ok := specs[r]
	if !ok {
		panic(fmt.Sprintf("jobfile: unknown role %q", r))
	}
	return s
}

type Matcher func(path, ext string) bool

// Contains accepts ext anywhere in path.
func Contains(path, ext string) bool {
	return strings.Contains(path, ext)
}

// HasSuffix accepts path only when it ends with ext.
func HasSuffix(path, ext string) bool {
	return strings.HasSuffix(path, ext)
}

type Validator struct {
	match Matcher
}

func NewValidator(strict bool) *Validator {
	if strict {
		return &Validator{match: HasSuffix}
	}
	return &Validator{match: Contains}
}

// Accepts reports whether path is valid for any of exts. An empty path means
// "not provided" and is always valid.
func (v *Validator) Accepts(path string, exts []string) bool {
	if path == "" {
		return true
	}
	for _, ext := range exts {
		if v.match(path, ext) {
			return true
		}
	}
	return false
}

// Validate checks path against the role's extensions.
func (v *Validator) Validate(r Role, path string) error {
	s := Lookup(r)
	if v.Accepts(path, s.Extensions) {
		return nil
	}
	return &FormatError{Spec: s, Path: path}
}

type FormatError struct {
	Spec Spec
	Path string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Wrong Format for %s, expected one of: %s",
		e.Spec.Description, strings.Join(e.Spec.Extensions, ", "))
}

func (e *FormatError) Unwrap() error {
	return ErrWrongFormat
}

// IsAmber reports whether a topology path is an Amber prmtop file.
func IsAmber(topology string) bool {
	return strings.HasSuffix(topology, ".prmtop")
}

// HasExt reports whether the base name of path ends with one of exts.
func HasExt(path string, exts ...string) bool {
	name := filepath.Base(path)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
