package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openmmdl/openmmdl-cli/internal/console"
)

// Execute runs cmd with args and returns the process exit code.
func Execute(cmd *cobra.Command, args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			console.New(cmd.OutOrStdout()).Error(exitErr.Message)
		}
		return exitErr.Code
	}

	// Anything else comes from cobra's own flag handling.
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return CodeUsage
}
