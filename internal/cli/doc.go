// Package cli builds the openmmdl_simulation and openmmdl_restart commands
// and maps their failures to process exit codes: 1 for validation and file
// errors, 2 for argument parsing errors, and the engine's own status when
// the engine process fails.
package cli
