package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sknups/pkginit/internal/config"
	clierrors "github.com/sknups/pkginit/internal/errors"
	"github.com/sknups/pkginit/internal/health"
)

func newCheckCmd(env *environment, g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the repository is ready to be initialized",
		Long: `Check reads the git remote, the manifest, the entry point and the
authorization command without changing anything, and reports each result.`,
		Example: `  pkginit check`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(env, g)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(health.Options{
				Dir:                 env.workDir,
				Remote:              cfg.Remote,
				TrustedOrganisation: cfg.TrustedOrganisation,
				ManifestPath:        config.Resolve(env.workDir, cfg.ManifestPath),
				EntryPointPath:      config.Resolve(env.workDir, cfg.EntryPointPath),
				AuthCommand:         cfg.AuthCommand,
				FS:                  env.fs,
				LookPath:            env.lookPath,
			})
			health.PrintReport(newPrinter(env), report)

			if !report.Passed {
				return clierrors.NewPrerequisiteError(
					fmt.Sprintf("%d of %d checks failed", report.Failed(), len(report.Checks)),
					"Fix the failed checks above and run pkginit check again",
				)
			}
			return nil
		},
	}
}
