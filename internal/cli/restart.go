package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openmmdl/openmmdl-cli/internal/detect"
	"github.com/openmmdl/openmmdl-cli/internal/jobfile"
	"github.com/openmmdl/openmmdl-cli/internal/restart"
	"github.com/openmmdl/openmmdl-cli/internal/statelog"
)

type restartOptions struct {
	toolOptions

	directory    string
	checkpoint   string
	script       string
	topology     string
	coordinate   string
	equilibrated string
	trajectory   string
	restartStep  int
	totalSteps   int
	plot         bool
}

// NewRestartCommand returns the openmmdl_restart command.
func NewRestartCommand() *cobra.Command {
	opts := &restartOptions{}

	cmd := &cobra.Command{
		Use:   "openmmdl_restart",
		Short: "Restart OpenMM Protein-Ligand MD Simulations from Checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestart(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.directory, "directory", "d", "", "Directory where the simulation run has stopped (required)")
	f.StringVarP(&opts.checkpoint, "checkpoint", "c", "", "Path to checkpoint file (.chk). If not specified, the most recent .chk file in the directory will be used.")
	f.StringVarP(&opts.script, "script", "s", "", "Path to the original simulation script (.py). If not specified, will be auto-detected.")
	f.StringVarP(&opts.topology, "topology", "t", "", "Path to topology file (.pdb or .prmtop). If not specified, will be auto-detected.")
	f.StringVar(&opts.coordinate, "coordinate", "", "Path to Amber coordinate file (.inpcrd). If not specified, will be auto-detected.")
	f.IntVar(&opts.restartStep, "restart-step", 0, "Step number to restart simulation from. If not specified, it is read from the newest state data log.")
	f.IntVar(&opts.totalSteps, "total-steps", 0, "Total step count of the run. If not specified, the steps variable of the original script is used.")
	f.StringVar(&opts.equilibrated, "equilibrated", "", "Path to equilibrated topology file (PDB) for restarting simulation")
	f.StringVar(&opts.trajectory, "trajectory", "", "Path to existing trajectory file (.dcd) to append to during restart")
	f.BoolVar(&opts.plot, "plot", false, "Plot the potential energy from the newest state data log before restarting")

	opts.toolOptions.register(cmd)

	if err := cmd.MarkFlagRequired("directory"); err != nil {
		panic(err)
	}
	return cmd
}

// lookup resolves one role inside the job directory.
type lookup struct {
	role     jobfile.Role
	flag     string
	label    string // used in "Auto-detected <label>" lines
	explicit string
	missing  string // names the input when detection fails; empty when optional
}

func (e *env) resolve(dir string, l lookup) (string, error) {
	if l.explicit != "" {
		if filepath.IsAbs(l.explicit) {
			return l.explicit, nil
		}
		return filepath.Join(dir, l.explicit), nil
	}

	path, err := detect.Role(dir, l.role)
	switch {
	case err == nil:
		e.out.Printf("Auto-detected %s: %s\n", l.label, path)
		e.log.Debug("Detected input.", "role", l.role, "path", path)
		return path, nil
	case !errors.Is(err, detect.ErrNoMatch):
		return "", fail("Error: could not scan %s: %v", dir, err)
	case l.missing != "":
		return "", fail("Error: No %s found in directory. Use --%s to specify.", l.missing, l.flag)
	}
	return "", nil
}

func runRestart(cmd *cobra.Command, opts *restartOptions) error {
	e, err := newEnv(cmd, &opts.toolOptions)
	if err != nil {
		return err
	}

	if err := e.validate(
		binding{jobfile.Checkpoint, opts.checkpoint},
		binding{jobfile.Script, opts.script},
		binding{jobfile.Topology, opts.topology},
		binding{jobfile.Coordinate, opts.coordinate},
		binding{jobfile.Equilibrated, opts.equilibrated},
		binding{jobfile.Trajectory, opts.trajectory},
	); err != nil {
		return err
	}

	e.banner("Restart OpenMM Protein-Ligand MD Simulations from Checkpoint")
	e.out.Header("RESTART MODE: Continuing simulation from checkpoint")

	dir, err := filepath.Abs(opts.directory)
	if err != nil {
		return fail("Error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fail("Error: Simulation directory not found: %s", dir)
	}
	e.out.Field("Simulation directory", dir)

	resolved := map[jobfile.Role]string{}
	for _, l := range []lookup{
		{jobfile.Checkpoint, "checkpoint", "checkpoint", opts.checkpoint, "checkpoint file"},
		{jobfile.Script, "script", "script", opts.script, "simulation script"},
		{jobfile.Topology, "topology", "topology", opts.topology, "topology file"},
		{jobfile.Coordinate, "coordinate", "coordinate file", opts.coordinate, ""},
		{jobfile.Trajectory, "trajectory", "trajectory", opts.trajectory, ""},
	} {
		path, err := e.resolve(dir, l)
		if err != nil {
			return err
		}
		resolved[l.role] = path
	}

	for _, check := range []struct {
		role jobfile.Role
		name string
	}{
		{jobfile.Checkpoint, "Checkpoint file"},
		{jobfile.Script, "Simulation script"},
		{jobfile.Topology, "Topology file"},
		{jobfile.Coordinate, "Coordinate file"},
		{jobfile.Trajectory, "Trajectory file"},
	} {
		path := resolved[check.role]
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fail("Error: %s not found: %s", check.name, path)
		}
	}

	equilibrated := opts.equilibrated
	if equilibrated != "" && !filepath.IsAbs(equilibrated) {
		equilibrated = filepath.Join(dir, equilibrated)
	}

	step, err := e.restartStep(cmd, dir, opts)
	if err != nil {
		return err
	}

	if opts.plot {
		e.plotEnergy(dir)
	}

	driver := restart.Driver{
		Topology:   resolved[jobfile.Topology],
		Coordinate: resolved[jobfile.Coordinate],
		Checkpoint: resolved[jobfile.Checkpoint],
		Script:     resolved[jobfile.Script],
		Step:       step,
		TotalSteps: opts.totalSteps,
	}
	scriptPath, err := driver.Write(dir)
	if err != nil {
		return fail("Error: could not generate restart script: %v", err)
	}

	configPath, err := restart.WriteConfig(dir, restart.Descriptor{
		Checkpoint:   driver.Checkpoint,
		Step:         step,
		Equilibrated: equilibrated,
		Trajectory:   resolved[jobfile.Trajectory],
	})
	if err != nil {
		return fail("Error: could not write restart configuration: %v", err)
	}

	e.out.Println()
	e.out.Field("Generated restart script", scriptPath)
	e.out.Field("Checkpoint file", filepath.Base(driver.Checkpoint))
	e.out.Field("Restart step", strconv.Itoa(step))
	e.out.Printf("Restart configuration written to %s\n", configPath)
	e.out.Rule()

	e.out.Println("Starting restart simulation...")
	code, err := e.runner.Run(e.ctx, dir, restart.ScriptName)
	if err != nil {
		return fail("Error: %v", err)
	}
	return engineExit(code)
}

// restartStep returns --restart-step when given, otherwise the last step
// of the newest state data log, otherwise 0.
func (e *env) restartStep(cmd *cobra.Command, dir string, opts *restartOptions) (int, error) {
	if cmd.Flags().Changed("restart-step") {
		if opts.restartStep < 0 {
			return 0, fail("Error: --restart-step must be non-negative, got %d", opts.restartStep)
		}
		return opts.restartStep, nil
	}

	if log, err := statelog.Find(dir); err == nil {
		if step, err := log.LastStep(); err == nil && step >= 0 {
			e.out.Printf("Inferred restart step %d from %s\n", step, filepath.Base(log.Path))
			return step, nil
		}
	}

	e.out.Warn("--restart-step not specified and no state data log found.\n" +
		"Specify --restart-step for precise control over the restart point.")
	return 0, nil
}

func (e *env) plotEnergy(dir string) {
	log, err := statelog.Find(dir)
	if err != nil {
		e.out.Warn("no state data log found to plot.")
		return
	}
	if err := log.Plot(e.out.Writer(), statelog.EnergyColumn); err != nil {
		e.out.Warn("could not plot " + filepath.Base(log.Path) + ": " + err.Error())
	}
}
