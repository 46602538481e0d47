// =============================================================================
// FieldMove Notes Merger - Column Checks
// =============================================================================
//
// This module performs best-effort column presence checks on the four source
// files. Findings never stop the pipeline: a missing optional column simply
// means the matching report section will not appear. The checks exist to
// make the most common integration mistake visible, a column whose name
// differs only in whitespace (for example "dip" instead of " dip").
//
// CHECKS:
//   - " timedate" must be present in every non-empty source. Rows of a source
//     without it are all dropped by the merger.
//   - Each category has expected columns (see expectedColumns). Their absence
//     is reported as a warning.
//   - A column that matches an expected name only after trimming whitespace,
//     or ignoring case, is reported with the exact expected spelling.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/fieldmove-notes/internal/csvparser"
	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single column finding.
type ValidationError struct {
	// Severity is SeverityError when every row of the source will be
	// dropped, SeverityWarning otherwise.
	Severity string

	// Source is the source file name, e.g. "plane.csv".
	Source string

	// Column is the expected column name, verbatim.
	Column string

	// Found is a near-miss column that exists in the file, if any.
	Found string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s, column %q: %s",
		strings.ToUpper(e.Severity),
		e.Source,
		e.Column,
		e.Message,
	)
}

// =============================================================================
// EXPECTED COLUMNS
// =============================================================================

// expectedColumns lists the report columns each category normally carries.
// " localityName" is optional in every category and is not checked.
var expectedColumns = map[record.Category][]string{
	record.CategoryImage: {
		record.ColLatitude, record.ColLongitude, record.ColNotes,
		record.ColImageName, record.ColHeading,
	},
	record.CategoryNote: {
		record.ColLatitude, record.ColLongitude, record.ColNotes,
	},
	record.CategoryPlane: {
		record.ColLatitude, record.ColLongitude, record.ColNotes,
		record.ColPlaneType, record.ColDipAzimuth, record.ColDip,
		record.ColRockUnit, record.ColDeclination,
	},
	record.CategoryLine: {
		record.ColLatitude, record.ColLongitude, record.ColNotes,
		record.ColLineationType, record.ColPlungeAzimuth, record.ColPlunge,
		record.ColRockUnit, record.ColDeclination,
	},
}

// ExpectedColumns returns the columns checked for a category, starting
// with the timestamp column.
func ExpectedColumns(cat record.Category) []string {
	cols := []string{record.ColTimedate}
	return append(cols, expectedColumns[cat]...)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateSource checks one parsed source. A source with no header at all
// (a zero-byte file) yields no findings.
func ValidateSource(cat record.Category, data *csvparser.CSVData) []*ValidationError {
	if data == nil || len(data.Headers) == 0 {
		return nil
	}

	var findings []*ValidationError

	for _, col := range ExpectedColumns(cat) {
		if data.HasColumn(col) {
			continue
		}

		finding := &ValidationError{
			Severity: SeverityWarning,
			Source:   cat.FileName(),
			Column:   col,
			Found:    nearMiss(col, data.Headers),
		}

		if col == record.ColTimedate && data.RowCount > 0 {
			finding.Severity = SeverityError
		}

		switch {
		case finding.Found != "":
			finding.Message = fmt.Sprintf("not found; %q differs only in spacing or case", finding.Found)
		case finding.Severity == SeverityError:
			finding.Message = "not found; every row of this file will be dropped"
		default:
			finding.Message = "not found; the matching report fields will be empty"
		}

		findings = append(findings, finding)
	}

	return findings
}

// nearMiss returns the first header equal to want after trimming spaces and
// folding case.
func nearMiss(want string, headers []string) string {
	norm := strings.ToLower(strings.TrimSpace(want))
	for _, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == norm {
			return h
		}
	}
	return ""
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []*ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors formats findings for display.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No column problems found."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Column checks found %d problem(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
