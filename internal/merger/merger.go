// =============================================================================
// FieldMove Notes Merger - Merger Module
// =============================================================================
//
// This module concatenates the four FieldMove sources into one chronological
// record set.
//
// MERGE RULES:
//   1. Sources are concatenated in the fixed order image, note, plane, line.
//   2. Each row's " timedate" cell is parsed with a lenient date-time parser.
//      Rows whose timestamp cannot be parsed are dropped with a warning.
//   3. The concatenation is stable-sorted by instant, so rows sharing a
//      timestamp keep their concatenation order.
//   4. DisplayIndex is the 1-based position after sorting.
//
// The merged schema is the union of all source columns, in order of first
// appearance. Rows keep their own cells only; a column that a row's source
// did not declare is simply absent from that row.
//
// =============================================================================

package merger

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/csvparser"
	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// =============================================================================
// TYPES
// =============================================================================

// Source is one parsed source file tagged with its category.
type Source struct {
	Category record.Category
	Data     *csvparser.CSVData
}

// Warning describes a row that was dropped during the merge.
type Warning struct {
	Category record.Category
	// Row is the zero-based data row position within the source file.
	Row    int
	Value  string
	Reason string
}

func (w Warning) String() string {
	return w.Category.FileName() + " row " + strconv.Itoa(w.Row) + ": " + w.Reason
}

// Result is the merged, chronologically ordered record set.
type Result struct {
	// Records in display order. Records[i].DisplayIndex == i+1.
	Records []record.Unified

	// Columns is the union of source columns in first-appearance order.
	Columns []string

	// Warnings lists every dropped row.
	Warnings []Warning

	// Counts holds the number of data rows read per category, before drops.
	Counts map[record.Category]int
}

// ErrMissingTimestamp is reported for rows without a timedate cell.
var ErrMissingTimestamp = eris.New("merger: missing timestamp")

// =============================================================================
// MERGE
// =============================================================================

// Merge concatenates, parses, sorts and indexes the sources.
func Merge(sources []Source, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Category < ordered[j].Category
	})

	result := &Result{
		Counts: make(map[record.Category]int, len(record.Categories)),
	}
	seen := make(map[string]bool)

	for _, src := range ordered {
		if src.Data == nil {
			continue
		}

		for _, h := range src.Data.Headers {
			if !seen[h] {
				seen[h] = true
				result.Columns = append(result.Columns, h)
			}
		}

		result.Counts[src.Category] += len(src.Data.Rows)

		for pos, row := range src.Data.Rows {
			raw, ok := row[record.ColTimedate]
			if !ok {
				result.drop(logger, src.Category, pos, "", ErrMissingTimestamp)
				continue
			}

			ts, err := ParseTimestamp(raw)
			if err != nil {
				result.drop(logger, src.Category, pos, raw, err)
				continue
			}

			result.Records = append(result.Records, record.Unified{
				SourceIndex: pos,
				Time:        ts,
				Fields:      row,
			})
		}
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].Time.Before(result.Records[j].Time)
	})

	for i := range result.Records {
		result.Records[i].DisplayIndex = i + 1
	}

	return result
}

// drop records and logs a dropped row.
func (r *Result) drop(logger *zap.Logger, cat record.Category, pos int, raw string, err error) {
	w := Warning{
		Category: cat,
		Row:      pos,
		Value:    raw,
		Reason:   err.Error(),
	}
	r.Warnings = append(r.Warnings, w)

	logger.Warn("merger: dropping row with unusable timestamp",
		zap.String("source", cat.FileName()),
		zap.Int("row", pos),
		zap.String("value", raw),
		zap.Error(err),
	)
}

// HasColumn reports whether any source declared the column.
func (r *Result) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Table renders the unfiltered merged table: the source row index first,
// then every source column, then the parsed time.
func (r *Result) Table() ([]string, [][]string) {
	headers := make([]string, 0, len(r.Columns)+2)
	headers = append(headers, record.ColIndex)
	headers = append(headers, r.Columns...)
	headers = append(headers, record.ColTime)

	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(rec.SourceIndex))
		for _, c := range r.Columns {
			row = append(row, rec.Fields[c])
		}
		row = append(row, rec.Time.Format(record.TimeLayout))
		rows = append(rows, row)
	}

	return headers, rows
}

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

// extraLayouts covers formats seen in FieldMove exports that cast does not
// try on its own. Slash dates are read month-first.
var extraLayouts = []string{
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp parses a raw timedate cell leniently. Values without a zone
// are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, ErrMissingTimestamp
	}

	if t, err := cast.ToTimeE(v); err == nil {
		return t, nil
	}

	for _, layout := range extraLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, eris.Errorf("merger: unrecognized timestamp %q", v)
}
