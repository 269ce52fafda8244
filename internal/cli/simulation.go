package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/openmmdl/openmmdl-cli/internal/jobfile"
	"github.com/openmmdl/openmmdl-cli/internal/restart"
	"github.com/openmmdl/openmmdl-cli/internal/runner"
	"github.com/openmmdl/openmmdl-cli/internal/workdir"
)

type simulationOptions struct {
	toolOptions

	folder     string
	script     string
	topology   string
	ligand     string
	coordinate string

	restart      bool
	checkpoint   string
	equilibrated string
	trajectory   string
	restartStep  int
}

// NewSimulationCommand returns the openmmdl_simulation command.
func NewSimulationCommand() *cobra.Command {
	opts := &simulationOptions{}

	cmd := &cobra.Command{
		Use:   "openmmdl_simulation",
		Short: "Prepare and Perform OpenMM Protein-Ligand MD Simulations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.folder, "folder", "f", "", "Folder Name for MD Simulation")
	f.StringVarP(&opts.script, "script", "s", "", "MD Simulation script")
	f.StringVarP(&opts.topology, "topology", "t", "", "Protein Topology PDB/Amber File")
	f.StringVarP(&opts.ligand, "ligand", "l", "", "SDF File of Ligand")
	f.StringVarP(&opts.coordinate, "coordinate", "c", "", "Amber coordinates file")

	f.BoolVar(&opts.restart, "restart", false, "Enable restart mode to continue a simulation from a checkpoint")
	f.StringVar(&opts.checkpoint, "checkpoint", "", "Path to checkpoint file (.chk) for restarting simulation")
	f.StringVar(&opts.equilibrated, "equilibrated", "", "Path to equilibrated topology file (PDB) for restarting simulation")
	f.StringVar(&opts.trajectory, "trajectory", "", "Path to existing trajectory file (.dcd) to append to during restart")
	f.IntVar(&opts.restartStep, "restart-step", 0, "Step number to restart simulation from")

	opts.toolOptions.register(cmd)

	for _, name := range []string{"folder", "script", "topology"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runSimulation(cmd *cobra.Command, opts *simulationOptions) error {
	e, err := newEnv(cmd, &opts.toolOptions)
	if err != nil {
		return err
	}
	e.banner("Prepare and Perform OpenMM Protein-Ligand MD Simulations")

	if opts.restart {
		if opts.checkpoint == "" {
			return fail("Error: --checkpoint is required when using --restart")
		}
		if !cmd.Flags().Changed("restart-step") {
			return fail("Error: --restart-step is required when using --restart")
		}
		if opts.restartStep < 0 {
			return fail("Error: --restart-step must be non-negative, got %d", opts.restartStep)
		}
	}

	inputs := []binding{
		{jobfile.Script, opts.script},
		{jobfile.Topology, opts.topology},
		{jobfile.Ligand, opts.ligand},
		{jobfile.Coordinate, opts.coordinate},
	}
	if opts.restart {
		inputs = append(inputs,
			binding{jobfile.Checkpoint, opts.checkpoint},
			binding{jobfile.Equilibrated, opts.equilibrated},
			binding{jobfile.Trajectory, opts.trajectory},
		)
	}
	if err := e.validate(inputs...); err != nil {
		return err
	}

	mode := workdir.Fresh
	if opts.restart {
		mode = workdir.Resume
	}
	dir, err := workdir.Prepare(opts.folder, mode)
	if err != nil {
		return fail("Error: could not prepare %s: %v", opts.folder, err)
	}
	e.log.Debug("Prepared simulation folder.", "dir", dir, "mode", mode)

	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		dst, err := workdir.Copy(in.path, dir)
		if err != nil {
			if errors.Is(err, workdir.ErrNotFound) {
				return fail("Wrong %s path, try the absolute path", jobfile.Lookup(in.role).CopyLabel)
			}
			return fail("Error: could not copy %s: %v", in.path, err)
		}
		e.log.Debug("Copied input.", "role", in.role, "dst", dst)
	}

	if opts.restart {
		path, err := restart.WriteConfig(dir, restart.Descriptor{
			Checkpoint:   opts.checkpoint,
			Step:         opts.restartStep,
			Equilibrated: opts.equilibrated,
			Trajectory:   opts.trajectory,
		})
		if err != nil {
			return fail("Error: could not write restart configuration: %v", err)
		}
		e.out.Printf("Restart configuration written to %s\n", path)
	}

	code, err := e.runner.RunAll(e.ctx, dir)
	if err != nil {
		if errors.Is(err, runner.ErrNoScript) {
			return fail("Error: no simulation script found in %s", dir)
		}
		return fail("Error: %v", err)
	}
	return engineExit(code)
}
