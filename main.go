// =============================================================================
// FieldMove Notes Merger - Main Entry Point
// =============================================================================
//
// USAGE:
//   fieldmove-notes process   - Merge an export folder and write the document
//   fieldmove-notes validate  - Check the source columns without writing
//   fieldmove-notes watch     - Rebuild whenever the export changes
//   fieldmove-notes init      - Write a starter fieldmove.yaml
//   fieldmove-notes version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Pipeline stages (parse, merge, project, render)
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/fieldmove-notes/cmd"
)

func main() {
	cmd.Execute()
}
