// Package runner launches the interpreter that drives the simulation engine.
//
// The child runs with the job directory as its working directory; the
// calling process never changes its own. Standard streams are handed to the
// child as is and the call blocks until the child exits.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/openmmdl/openmmdl-cli/internal/config"
	"github.com/openmmdl/openmmdl-cli/internal/ctxlog"
	"github.com/openmmdl/openmmdl-cli/internal/detect"
)

// ErrNoScript is returned by RunAll when the job directory holds no script.
var ErrNoScript = errors.New("runner: no script to run")

type Runner struct {
	Interpreter string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

func New(interpreter string) *Runner {
	if interpreter == "" {
		interpreter = config.DefaultInterpreter
	}
	return &Runner{
		Interpreter: interpreter,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Command builds the child command for scripts inside dir.
func (r *Runner) Command(ctx context.Context, dir string, scripts ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Interpreter, scripts...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd
}

// Run executes the named scripts in dir and returns the child's exit status.
// A non-nil error means the child could not be started or was killed.
func (r *Runner) Run(ctx context.Context, dir string, scripts ...string) (int, error) {
	log := ctxlog.FromContext(ctx)
	cmd := r.Command(ctx, dir, scripts...)
	log.Debug("Launching engine process.", "dir", dir, "argv", cmd.Args)

	err := cmd.Run()
	if err == nil {
		log.Debug("Engine process finished.", "code", 0)
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		log.Debug("Engine process finished.", "code", exitErr.ExitCode())
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("runner: %s: %w", r.Interpreter, err)
}

// RunAll executes every .py file directly inside dir, in name order, the
// way a shell expands `python3 *.py`: the first file is the program and the
// rest are its arguments.
func (r *Runner) RunAll(ctx context.Context, dir string) (int, error) {
	scripts, err := detect.FindFilesByExtension(dir, ".py")
	if err != nil {
		return -1, err
	}
	if len(scripts) == 0 {
		return -1, fmt.Errorf("%w in %s", ErrNoScript, dir)
	}
	for i, s := range scripts {
		scripts[i] = filepath.Base(s)
	}
	return r.Run(ctx, dir, scripts...)
}
