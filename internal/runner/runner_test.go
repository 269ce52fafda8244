package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openmmdl/openmmdl-cli/internal/config"
)

func shellRunner() *Runner {
	r := New("sh")
	r.Stdin = nil
	r.Stdout = io.Discard
	r.Stderr = io.Discard
	return r
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultInterpreter(t *testing.T) {
	if New("").Interpreter != config.DefaultInterpreter {
		t.Error("expected python3 by default")
	}
}

func TestRunUsesJobDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "job.py"), "pwd > where.txt\n")

	before, _ := os.Getwd()
	code, err := shellRunner().Run(context.Background(), dir, "job.py")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	after, _ := os.Getwd()
	if before != after {
		t.Errorf("working directory changed from %s to %s", before, after)
	}

	data, err := os.ReadFile(filepath.Join(dir, "where.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(string(data)))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("child ran in %s, want %s", got, want)
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "fail.py"), "exit 3\n")

	code, err := shellRunner().Run(context.Background(), dir, "fail.py")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 3 {
		t.Errorf("expected exit 3, got %d", code)
	}
}

func TestRunMissingInterpreter(t *testing.T) {
	r := shellRunner()
	r.Interpreter = filepath.Join(t.TempDir(), "no-such-python")

	if _, err := r.Run(context.Background(), t.TempDir(), "x.py"); err == nil {
		t.Error("expected start error")
	}
}

func TestRunAllExpandsSorted(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.py"), `echo "$0 $1" > argv.txt`+"\n")
	write(t, filepath.Join(dir, "b.py"), "exit 9\n")
	write(t, filepath.Join(dir, "notes.txt"), "ignored\n")

	code, err := shellRunner().RunAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}

	data, err := os.ReadFile(filepath.Join(dir, "argv.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "a.py b.py" {
		t.Errorf("unexpected argv %q", data)
	}
}

func TestRunAllEmpty(t *testing.T) {
	_, err := shellRunner().RunAll(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoScript) {
		t.Errorf("expected ErrNoScript, got %v", err)
	}
}
