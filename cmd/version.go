package cmd

import (
	"fmt"
	"runtime"

	"github.com/fbz-tec/sqlitexport/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sqlitexport %s\n", version.AppVersion)
		fmt.Fprintf(out, "  Build time: %s\n", version.BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
	},
}
