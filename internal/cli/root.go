// Package cli wires configuration, logging and terminal detection into the
// project configuration flow and exposes it as the pkginit command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sknups/pkginit/internal/config"
	clierrors "github.com/sknups/pkginit/internal/errors"
	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/logging"
	"github.com/sknups/pkginit/internal/output"
)

// environment is everything the commands take from the process.
// Tests substitute their own.
type environment struct {
	workDir        string
	userConfigPath string
	stdin          io.Reader
	stdout         io.Writer
	stderr         io.Writer
	interactive    bool
	caps           output.TerminalCapabilities
	fs             afero.Fs
	lookPath       func(file string) (string, error)
}

func processEnvironment() (*environment, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &environment{
		workDir:     wd,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: output.StdinIsTerminal(),
		caps:        output.DetectTerminalCapabilities(),
		fs:          afero.NewOsFs(),
		lookPath:    exec.LookPath,
	}, nil
}

// globalOptions are the persistent flags.
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

// Execute runs the pkginit command and returns the process exit code.
func Execute() int {
	env, err := processEnvironment()
	if err != nil {
		clierrors.FprintError(os.Stderr, clierrors.NewPrerequisiteError("cannot determine the working directory: "+err.Error()))
		return clierrors.ExitMissingDependencies
	}
	return execute(context.Background(), newRootCmd(env), env.stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return clierrors.ExitSuccess
	}

	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}
	clierrors.FprintError(stderr, cliErr)
	return cliErr.ExitCode()
}

func newRootCmd(env *environment) *cobra.Command {
	g := &globalOptions{}
	f := &flowFlags{}

	cmd := &cobra.Command{
		Use:   "pkginit",
		Short: "Initialize a repository created from the JavaScript project template",
		Long: `pkginit configures a freshly created repository: it asks for the project name,
whether the project is a script or a library and, for the trusted organisation,
its publication scope. It then writes package.json and index.js, authorizes the
internal registry when needed and prints the infrastructure change to make.`,
		Example: `  # Answer the questions interactively
  pkginit

  # Public library, no questions asked
  pkginit --nature library --scope public --yes

  # Check the repository before running
  pkginit check`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if (g.noColor || !env.caps.SupportsColor) && !color.NoColor {
				color.NoColor = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, env, g, f)
		},
	}

	cmd.SetIn(env.stdin)
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(), "Run '"+c.CommandPath()+" --help' for usage")
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "project config file (default: .pkginit.yml in the working directory)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	f.register(cmd)

	cmd.AddCommand(newCheckCmd(env, g))
	cmd.AddCommand(newConfigCmd(env, g))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig loads configuration and sets up logging from it.
func loadConfig(env *environment, g *globalOptions) (*config.Configuration, error) {
	projectConfig := g.configPath
	if projectConfig != "" {
		projectConfig = config.Resolve(env.workDir, projectConfig)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		WorkDir:           env.workDir,
		ProjectConfigPath: projectConfig,
		UserConfigPath:    env.userConfigPath,
		WarningWriter:     env.stderr,
	})
	if err != nil {
		return nil, clierrors.ConfigLoadFailure(err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, clierrors.ConfigLoadFailure(err)
	}
	if g.verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.LogFormat, env.stderr)
	git.SetDebugLogger(logging.Printf(logging.New("git")))

	return cfg, nil
}

func newPrinter(env *environment) *output.Printer {
	return output.NewPrinter(env.stdout, output.SelectSymbols(env.caps))
}
