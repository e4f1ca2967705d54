package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sknups/pkginit/internal/version"
)

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display version, commit, build date, and Go version information for pkginit",
		Example: `  # Show version info
  pkginit version

  # Plain output (for scripts)
  pkginit version --plain`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintf(out, "pkginit %s\n", version.Version)
				fmt.Fprintf(out, "commit: %s\n", version.Commit)
				fmt.Fprintf(out, "built: %s\n", version.BuildDate)
				fmt.Fprintf(out, "go: %s\n", runtime.Version())
				fmt.Fprintf(out, "platform: %s\n", version.Platform())
				return
			}
			fmt.Fprintln(out, version.String())
			fmt.Fprintf(out, "  built %s with %s for %s\n", version.BuildDate, runtime.Version(), version.Platform())
			if version.IsDevBuild() {
				fmt.Fprintln(out, "  development build")
			}
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}
