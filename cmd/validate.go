// =============================================================================
// FieldMove Notes Merger - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   fieldmove-notes validate [flags]
//
// Checks that the four source files exist and carry the columns the report
// uses, without writing anything. A source whose rows would all be dropped
// (no " timedate" column) makes the command fail. Other findings are
// printed as warnings.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/converter"
	"github.com/ginjaninja78/fieldmove-notes/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the export folder without writing outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addInputFlags(validateCmd)
	validateCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Fail instead of asking for the folder")
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if !noPrompt {
		if err := ask(dirPrompt(cfg), cmd.InOrStdin(), out); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	findings, err := converter.New(cfg, zap.L()).Check()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, validation.FormatErrors(findings))

	if validation.HasErrors(findings) {
		return eris.New("validate: some sources would lose every row")
	}
	return nil
}
