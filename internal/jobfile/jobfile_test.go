package jobfile

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorAccepts(t *testing.T) {
	v := NewValidator(false)

	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"protein.pdb", []string{".pdb", ".prmtop"}, true},
		{"protein.prmtop", []string{".pdb", ".prmtop"}, true},
		{"protein.xyz", []string{".pdb", ".prmtop"}, false},
		{"checkpoint.chk", []string{".chk"}, true},
		{"trajectory.dcd", []string{".dcd"}, true},
		{"myfile.pdbfoo", []string{".pdb"}, true},
		{"/data/run.pdb/notes", []string{".pdb"}, true},
		{"", []string{".pdb"}, true},
		{"", nil, true},
		{"script.py", nil, false},
	}

	for _, tt := range tests {
		if got := v.Accepts(tt.path, tt.exts); got != tt.want {
			t.Errorf("Accepts(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
		}
	}
}

func TestValidatorStrict(t *testing.T) {
	v := NewValidator(true)

	if v.Accepts("myfile.pdbfoo", []string{".pdb"}) {
		t.Error("strict validator accepted myfile.pdbfoo")
	}
	if !v.Accepts("myfile.pdb", []string{".pdb"}) {
		t.Error("strict validator rejected myfile.pdb")
	}
	if !v.Accepts("", []string{".pdb"}) {
		t.Error("empty path must always validate")
	}
}

func TestValidateMessage(t *testing.T) {
	v := NewValidator(false)

	err := v.Validate(Topology, "protein.xyz")
	if err == nil {
		t.Fatal("expected error for protein.xyz")
	}
	if !errors.Is(err, ErrWrongFormat) {
		t.Errorf("expected ErrWrongFormat, got %v", err)
	}
	want := "Wrong Format for topology, expected one of: .pdb, .prmtop"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	err = v.Validate(Equilibrated, "eq.dcd")
	if err == nil || !strings.Contains(err.Error(), "Wrong Format for equilibrated topology") {
		t.Errorf("unexpected error: %v", err)
	}

	if err := v.Validate(Ligand, "lig.sdf"); err != nil {
		t.Errorf("lig.sdf rejected: %v", err)
	}
	if err := v.Validate(Ligand, ""); err != nil {
		t.Errorf("absent ligand rejected: %v", err)
	}
}

func TestLookupAllRoles(t *testing.T) {
	for _, r := range []Role{Script, Topology, Ligand, Coordinate, Checkpoint, Equilibrated, Trajectory} {
		s := Lookup(r)
		if s.Role != r {
			t.Errorf("role %s: spec has role %s", r, s.Role)
		}
		if len(s.Extensions) == 0 {
			t.Errorf("role %s: no extensions", r)
		}
	}
}

func TestIsAmber(t *testing.T) {
	if !IsAmber("/x/complex.prmtop") {
		t.Error("expected prmtop to be amber")
	}
	if IsAmber("complex.pdb") {
		t.Error("pdb is not amber")
	}
}
