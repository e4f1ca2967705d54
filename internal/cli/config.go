package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sknups/pkginit/internal/config"
	clierrors "github.com/sknups/pkginit/internal/errors"
)

func newConfigCmd(env *environment, g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pkginit configuration",
		Long: `Manage pkginit configuration.

Configuration precedence (highest to lowest):
  1. Environment variables (PKGINIT_*)
  2. Project config (.pkginit.yml)
  3. User config (~/.config/pkginit/config.yml)
  4. Built-in defaults`,
		Args: cobra.NoArgs,
	}
	cmd.AddCommand(newConfigInitCmd(env, g))
	cmd.AddCommand(newConfigShowCmd(env, g))
	return cmd
}

func newConfigInitCmd(env *environment, g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented project config file",
		Long: `Write .pkginit.yml in the working directory, listing every option with
its default. An existing file is left unchanged unless --force is given.`,
		Example: `  pkginit config init
  pkginit config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath(env.workDir)
			if g.configPath != "" {
				path = config.Resolve(env.workDir, g.configPath)
			}

			exists, err := afero.Exists(env.fs, path)
			if err != nil {
				return clierrors.ConfigLoadFailure(err)
			}
			if exists && !force {
				return clierrors.NewConfigError(
					fmt.Sprintf("%s already exists", path),
					"Use --force to overwrite it with the defaults",
				)
			}

			if err := afero.WriteFile(env.fs, path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			newPrinter(env).Success("config", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCmd(env *environment, g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration as YAML",
		Example: `  PKGINIT_REMOTE=upstream pkginit config show`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(env, g)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return enc.Close()
		},
	}
}
