// =============================================================================
// FieldMove Notes Merger - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// runs the whole pipeline once for one export folder.
//
// COMMAND USAGE:
//   fieldmove-notes process [flags]
//
// FLAGS:
//   --dir              : The .fm folder exported by FieldMove Clino
//   --title            : Year and field area, e.g. "2017 Inner Mongolia"
//   --author           : Author name
//   --image-dir        : Image folder referenced by the document
//   --encoding         : Encoding of the source CSV files (utf-8 or latin1)
//   --workbook         : Also write both tables to this .xlsx file
//   --legacy-skip-last : Leave the final record out of the document
//   --show-extent      : Add the survey bounding box to the summary
//   --no-prompt        : Fail instead of asking for missing values
//
// PROCESSING PIPELINE:
//   1. Ask for any missing folder, title, author or image folder
//   2. Validate the configuration
//   3. Run the converter
//   4. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
	"github.com/ginjaninja78/fieldmove-notes/internal/converter"
	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// noPrompt disables the interactive questions.
var noPrompt bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Merge the FieldMove CSV files and write the LaTeX document",
	Long: `The process command reads image.csv, note.csv, plane.csv and line.csv
from the export folder, merges them by timestamp and writes three files into
the same folder: all_notes.csv, all_notes_filtered.csv and latexoutput.tex.

Values missing from the configuration (folder, title, author and image
folder) are asked for on the terminal unless --no-prompt is given.

Rows whose timestamp cannot be parsed are dropped and reported. A missing
source file or a failed write stops the run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	addInputFlags(processCmd)
	addReportFlags(processCmd)

	processCmd.Flags().BoolVar(
		&noPrompt,
		"no-prompt",
		false,
		"Fail instead of asking for missing values",
	)
}

// addInputFlags registers the flags that locate and decode the sources.
func addInputFlags(c *cobra.Command) {
	c.Flags().String("dir", "", "The .fm folder exported by FieldMove Clino")
	c.Flags().String("encoding", "utf-8", "Encoding of the source CSV files (utf-8 or latin1)")
}

// addReportFlags registers the flags that shape the document.
func addReportFlags(c *cobra.Command) {
	c.Flags().String("title", "", "Year and field area, e.g. \"2017 Inner Mongolia\"")
	c.Flags().String("author", "", "Author name")
	c.Flags().String("image-dir", "", "Image folder referenced by the document, e.g. image_thumbnails")
	c.Flags().String("workbook", "", "Also write both tables to this .xlsx file")
	c.Flags().Bool("legacy-skip-last", false, "Leave the final record out of the document")
	c.Flags().Bool("show-extent", false, "Add the survey bounding box to the summary")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEPS 1-2: COMPLETE AND VALIDATE THE CONFIGURATION
	// =========================================================================

	if err := completeConfig(cfg, cmd.InOrStdin(), out); err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: RUN THE CONVERTER
	// =========================================================================

	conv := converter.New(cfg, zap.L())
	result := conv.Run()

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	printSummary(out, result)

	return result.Error
}

// completeConfig asks for missing values (unless --no-prompt) and validates
// the result.
func completeConfig(c *config.Config, in io.Reader, out io.Writer) error {
	if !noPrompt {
		if err := ask(prompts(c), in, out); err != nil {
			return err
		}
	}
	return c.Validate()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// printSummary writes the run summary.
func printSummary(out io.Writer, result converter.Result) {
	stats := result.Stats

	fmt.Fprintln(out, "\n=== FieldMove Notes Merger ===")

	cats := make([]record.Category, 0, len(stats.SourceRows))
	for cat := range stats.SourceRows {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, cat := range cats {
		fmt.Fprintf(out, "%-16s %d entries imported\n", cat.FileName()+":", stats.SourceRows[cat])
	}

	fmt.Fprintf(out, "Merged records:  %d\n", stats.RecordsMerged)
	fmt.Fprintf(out, "Rows dropped:    %d\n", stats.RowsDropped)
	fmt.Fprintf(out, "Records written: %d\n", stats.RecordsRendered)
	if stats.ImagesSkipped > 0 {
		fmt.Fprintf(out, "Images skipped:  %d\n", stats.ImagesSkipped)
	}

	for _, path := range []string{result.MergedFile, result.FilteredFile, result.DocumentFile, result.WorkbookFile} {
		if path != "" {
			fmt.Fprintf(out, "  -> %s\n", path)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "\n%d warning(s):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	if result.Error != nil {
		fmt.Fprintf(out, "\nFailed: %v\n", result.Error)
		return
	}

	fmt.Fprintf(out, "\nDone in %s\n", stats.ProcessingTime)
}
