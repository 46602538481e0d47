package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

// force overwrites an existing configuration file.
var force bool

// initCmd writes a starter configuration file.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter fieldmove.yaml with every default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}

		if err := config.WriteDefault(path, force); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
}
