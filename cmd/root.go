// =============================================================================
// FieldMove Notes Merger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fieldmove-notes)
//   ├── processCmd  (fieldmove-notes process)
//   ├── validateCmd (fieldmove-notes validate)
//   ├── watchCmd    (fieldmove-notes watch)
//   ├── initCmd     (fieldmove-notes init)
//   └── versionCmd  (fieldmove-notes version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (defaults, file, FIELDMOVE_* env, flags)
//   2. Sets up the global zap logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. When empty,
// fieldmove.yaml in the working directory is used if it exists.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// cfg is the configuration loaded for the running command.
var cfg *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "fieldmove-notes",
	Short: "FieldMove Notes Merger - Turn a FieldMove Clino export into a LaTeX field book",
	Long: `FieldMove Notes Merger reads the four CSV files exported by FieldMove Clino
(image.csv, note.csv, plane.csv and line.csv), merges them into one
chronological table and renders a LaTeX document with one block per record.

Outputs, written next to the sources:
  all_notes.csv           every column of every source, sorted by time
  all_notes_filtered.csv  the report field set only
  latexoutput.tex         the field book

Example Usage:
  fieldmove-notes process --dir ./project1.fm      # Prompt for title, author, images
  fieldmove-notes process --no-prompt --config my.yaml
  fieldmove-notes validate --dir ./project1.fm     # Check columns only
  fieldmove-notes watch --dir ./project1.fm        # Rebuild on every export`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		if err := config.InitLogger(loaded.Log); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./fieldmove.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console or json)")
}
