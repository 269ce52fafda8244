// Package workdir prepares the simulation working directory and copies job
// inputs into it.
package workdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned by Copy when the source file does not exist.
	ErrNotFound = errors.New("workdir: source file not found")
	// ErrNotDir is returned by Prepare when the target exists as a file.
	ErrNotDir = errors.New("workdir: not a directory")
)

type Mode int

const (
	// Fresh wipes an existing directory before use.
	Fresh Mode = iota
	// Resume keeps whatever a previous run left behind.
	Resume
)

func (m Mode) String() string {
	if m == Resume {
		return "resume"
	}
	return "fresh"
}

// Prepare makes dir ready for a run and returns its absolute path.
func Prepare(dir string, mode Mode) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		// created below
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", fmt.Errorf("%w: %s", ErrNotDir, abs)
	case mode == Fresh:
		if err := os.RemoveAll(abs); err != nil {
			return "", fmt.Errorf("workdir: reset %s: %w", abs, err)
		}
	default:
		return abs, nil
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", err
	}
	return abs, nil
}

// Copy copies src into dir under its base name and returns the new path.
func Copy(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, src)
		}
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, src)
	}

	dst := filepath.Join(dir, filepath.Base(src))
	// Opening dst with O_TRUNC would empty src when both name one file.
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return dst, nil
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	return dst, out.Close()
}
