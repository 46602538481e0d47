// =============================================================================
// FieldMove Notes Merger - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   fieldmove-notes version
//
// OUTPUT:
//   FieldMove Notes Merger
//   Version:    1.0.0
//   Build Date: 2026-10-01
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time:
//   go build -ldflags "-X 'github.com/ginjaninja78/fieldmove-notes/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "FieldMove Notes Merger")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
