// =============================================================================
// FieldMove Notes Merger - Watch Command
// =============================================================================
//
// COMMAND USAGE:
//   fieldmove-notes watch [flags]
//
// Runs the pipeline once, then again every time FieldMove rewrites one of
// the source files in the export folder. Stop with Ctrl-C.
//
// =============================================================================

package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/converter"
)

// debounce is the quiet period before a rebuild.
var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the outputs whenever the export folder changes",
	Long: `The watch command processes the export folder once and then keeps
watching image.csv, note.csv, plane.csv and line.csv. A rebuild starts once
no source has changed for the debounce period.

A failed run is reported and watching continues.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addInputFlags(watchCmd)
	addReportFlags(watchCmd)

	watchCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Fail instead of asking for missing values")
	watchCmd.Flags().DurationVar(&debounce, "debounce", converter.DefaultDebounce, "Quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if err := completeConfig(cfg, cmd.InOrStdin(), out); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := converter.New(cfg, zap.L())
	report := func(result converter.Result) {
		printSummary(out, result)
		if result.Error != nil {
			zap.L().Error("run failed", zap.String("run_id", result.RunID), zap.Error(result.Error))
		}
	}

	report(conv.Run())

	return conv.Watch(ctx, debounce, report)
}
