// Command openmmdl_restart resumes a stopped simulation from its newest
// checkpoint.
package main

import (
	"io"
	"os"

	"github.com/openmmdl/openmmdl-cli/internal/cli"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func run(out, errOut io.Writer, args []string) int {
	cmd := cli.NewRestartCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cli.Execute(cmd, args)
}
