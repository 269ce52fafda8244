package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openmmdl/openmmdl-cli/internal/config"
	"github.com/openmmdl/openmmdl-cli/internal/console"
	"github.com/openmmdl/openmmdl-cli/internal/ctxlog"
	"github.com/openmmdl/openmmdl-cli/internal/jobfile"
	"github.com/openmmdl/openmmdl-cli/internal/runner"
)

// toolOptions are the flags shared by both commands. They override values
// from the config file when set explicitly.
type toolOptions struct {
	configFile string
	python     string
	strict     bool
	logLevel   string
	logFormat  string
	noBanner   bool
}

func (o *toolOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configFile, "config", "", "config file path (yaml), defaults to $"+config.EnvPath)
	f.StringVar(&o.python, "python", config.DefaultInterpreter, "interpreter used to run simulation scripts")
	f.BoolVar(&o.strict, "strict-extensions", false, "require file names to end with an accepted extension")
	f.StringVar(&o.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	f.StringVar(&o.logFormat, "log-format", config.DefaultLogFormat, "log format: text or json")
	f.BoolVar(&o.noBanner, "no-banner", false, "do not print the banner")
}

// resolve merges the config file with explicitly set flags.
func (o *toolOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(o.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("python") {
		cfg.Interpreter = o.python
	}
	if flags.Changed("strict-extensions") {
		cfg.StrictExtensions = o.strict
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("no-banner") {
		cfg.Banner = !o.noBanner
	}
	return cfg, cfg.Validate()
}

// env is what a command needs once its flags are resolved.
type env struct {
	ctx       context.Context
	log       *slog.Logger
	out       *console.Console
	validator *jobfile.Validator
	runner    *runner.Runner
	cfg       *config.Config
}

func newEnv(cmd *cobra.Command, opts *toolOptions) (*env, error) {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return nil, fail("Error: %v", err)
	}

	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r := runner.New(cfg.Interpreter)
	r.Stdin = cmd.InOrStdin()
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()

	logger.Debug("Configuration resolved.", "interpreter", cfg.Interpreter, "strict", cfg.StrictExtensions)
	return &env{
		ctx:       ctxlog.WithLogger(ctx, logger),
		log:       logger,
		out:       console.New(cmd.OutOrStdout()),
		validator: jobfile.NewValidator(cfg.StrictExtensions),
		runner:    r,
		cfg:       cfg,
	}, nil
}

func (e *env) banner(tagline string) {
	if e.cfg.Banner {
		e.out.Banner(tagline)
	}
}

// binding is a role with the path given for it on the command line.
type binding struct {
	role jobfile.Role
	path string
}

func (e *env) validate(bindings ...binding) error {
	for _, b := range bindings {
		if err := e.validator.Validate(b.role, b.path); err != nil {
			return failErr(err)
		}
		if b.path != "" {
			e.log.Debug("Validated input.", "role", b.role, "path", b.path)
		}
	}
	return nil
}
