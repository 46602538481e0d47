// =============================================================================
// FieldMove Notes Merger - Converter Module
// =============================================================================
//
// This module contains the pipeline for one FieldMove export folder, from the
// four source CSV files to the LaTeX report.
//
// CONVERSION PIPELINE:
//   1. Check that image.csv, note.csv, plane.csv and line.csv exist
//   2. Parse the four sources
//   3. Run best-effort column checks (warnings only)
//   4. Merge the sources chronologically
//   5. Write the merged table (all_notes.csv)
//   6. Project to the report field set
//   7. Write the filtered table (all_notes_filtered.csv)
//   8. Render one block per record and assemble the document
//   9. Write the document (latexoutput.tex)
//  10. Optionally write both tables to a workbook
//
// ERRORS:
//   A missing or unreadable source and any output write failure stop the
//   run. Everything else (bad timestamps, missing fields, malformed image
//   names) is handled by leaving something out and is reported as a warning.
//
// The pipeline is a single synchronous batch. A Converter may be reused for
// several runs (the watch command does), but never concurrently.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
	"github.com/ginjaninja78/fieldmove-notes/internal/csvparser"
	"github.com/ginjaninja78/fieldmove-notes/internal/geo"
	"github.com/ginjaninja78/fieldmove-notes/internal/latexwriter"
	"github.com/ginjaninja78/fieldmove-notes/internal/merger"
	"github.com/ginjaninja78/fieldmove-notes/internal/projector"
	"github.com/ginjaninja78/fieldmove-notes/internal/record"
	"github.com/ginjaninja78/fieldmove-notes/internal/validation"
	"github.com/ginjaninja78/fieldmove-notes/internal/xlsxwriter"
	"github.com/ginjaninja78/fieldmove-notes/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Dir is the export folder that was processed.
	Dir string

	// Output paths. Empty when the step did not complete.
	MergedFile   string
	FilteredFile string
	DocumentFile string
	WorkbookFile string

	// Success indicates whether every output was written.
	Success bool

	// Error contains the fatal error, if any.
	Error error

	// Warnings lists every non-fatal problem: column findings, dropped rows
	// and records left out of the document.
	Warnings []string

	// Findings are the column check results.
	Findings []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// SourceRows is the number of data rows read per category.
	SourceRows map[record.Category]int

	// RecordsMerged is the number of records after dropping bad timestamps.
	RecordsMerged int

	// RowsDropped is the number of rows dropped for bad timestamps.
	RowsDropped int

	// RecordsRendered is the number of record blocks in the document.
	RecordsRendered int

	// ImagesSkipped counts image sections left out for malformed names.
	ImagesSkipped int

	// LocalitySynthesized is set when no source had a locality column.
	LocalitySynthesized bool

	// Located is the number of records with both coordinates.
	Located int

	// Extent is the bounding box of located records (X = lon, Y = lat).
	Extent *geom.Bounds

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline for one export folder.
type Converter struct {
	cfg    *config.Config
	fm     *utils.FileManager
	logger *zap.Logger
}

// New creates a Converter. A nil logger discards all output.
func New(cfg *config.Config, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		cfg:    cfg,
		fm:     utils.NewFileManager(cfg.Input.Dir),
		logger: logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline once.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		RunID: uuid.NewString(),
		Dir:   c.cfg.Input.Dir,
		Stats: ProcessingStats{SourceRows: map[record.Category]int{}},
	}
	log := c.logger.With(zap.String("run_id", result.RunID))

	// =========================================================================
	// STEPS 1-2: LOAD SOURCES
	// =========================================================================

	sources, err := c.LoadSources()
	if err != nil {
		result.Error = err
		return result
	}

	for _, src := range sources {
		result.Stats.SourceRows[src.Category] = src.Data.RowCount
		log.Info("source imported",
			zap.String("file", src.Category.FileName()),
			zap.Int("entries", src.Data.RowCount),
		)
	}

	// =========================================================================
	// STEP 3: COLUMN CHECKS
	// =========================================================================

	for _, src := range sources {
		for _, f := range validation.ValidateSource(src.Category, src.Data) {
			result.Findings = append(result.Findings, f)
			result.Warnings = append(result.Warnings, f.Error())
			log.Warn("column check",
				zap.String("source", f.Source),
				zap.String("column", f.Column),
				zap.String("severity", f.Severity),
				zap.String("message", f.Message),
			)
		}
	}

	// =========================================================================
	// STEPS 4-5: MERGE AND WRITE THE MERGED TABLE
	// =========================================================================

	merged := merger.Merge(sources, log)
	result.Stats.RecordsMerged = len(merged.Records)
	result.Stats.RowsDropped = len(merged.Warnings)
	for _, w := range merged.Warnings {
		result.Warnings = append(result.Warnings, w.String())
	}

	headers, rows := merged.Table()
	result.MergedFile = c.fm.OutputPath(c.cfg.Output.MergedFile)
	if err := csvparser.Write(result.MergedFile, headers, rows); err != nil {
		result.MergedFile = ""
		result.Error = eris.Wrap(err, "converter: write merged table")
		return result
	}
	log.Info("all notes concatenated", zap.String("file", result.MergedFile), zap.Int("records", len(rows)))

	// =========================================================================
	// STEPS 6-7: PROJECT AND WRITE THE FILTERED TABLE
	// =========================================================================

	proj := projector.Project(merged)
	result.Stats.LocalitySynthesized = proj.LocalitySynthesized
	if proj.LocalitySynthesized {
		log.Debug("no locality column in sources; filled with empty values")
	}

	fHeaders, fRows := proj.Table()
	result.FilteredFile = c.fm.OutputPath(c.cfg.Output.FilteredFile)
	if err := csvparser.Write(result.FilteredFile, fHeaders, fRows); err != nil {
		result.FilteredFile = ""
		result.Error = eris.Wrap(err, "converter: write filtered table")
		return result
	}
	log.Info("all notes filtered", zap.String("file", result.FilteredFile))

	// =========================================================================
	// STEPS 8-9: RENDER AND WRITE THE DOCUMENT
	// =========================================================================

	result.Stats.Located = geo.Located(proj.Records)
	result.Stats.Extent = geo.Extent(proj.Records)
	if !result.Stats.Extent.IsEmpty() {
		log.Debug("survey extent",
			zap.Float64("min_lat", result.Stats.Extent.Min(1)),
			zap.Float64("max_lat", result.Stats.Extent.Max(1)),
			zap.Float64("min_lon", result.Stats.Extent.Min(0)),
			zap.Float64("max_lon", result.Stats.Extent.Max(0)),
		)
	}

	doc, warnings := c.BuildDocument(proj.Records, result.Stats.Extent, log)
	result.Warnings = append(result.Warnings, warnings...)
	for _, b := range doc.Blocks() {
		block, ok := b.(latexwriter.RecordBlock)
		if !ok {
			continue
		}
		result.Stats.RecordsRendered++
		if block.ImageErr != nil && !eris.Is(block.ImageErr, latexwriter.ErrNoImage) {
			result.Stats.ImagesSkipped++
		}
	}

	content, err := doc.Render()
	if err != nil {
		result.Error = eris.Wrap(err, "converter: render document")
		return result
	}

	result.DocumentFile, err = c.fm.WriteOutput(c.cfg.Output.DocumentFile, content)
	if err != nil {
		result.Error = eris.Wrap(err, "converter: write document")
		return result
	}
	log.Info("document written",
		zap.String("file", result.DocumentFile),
		zap.Int("records", result.Stats.RecordsRendered),
	)

	// =========================================================================
	// STEP 10: OPTIONAL WORKBOOK
	// =========================================================================

	if c.cfg.Output.Workbook != "" {
		path := c.fm.OutputPath(c.cfg.Output.Workbook)
		err := xlsxwriter.Write(path,
			xlsxwriter.Sheet{Name: sheetName(c.cfg.Output.MergedFile), Headers: headers, Rows: rows},
			xlsxwriter.Sheet{Name: sheetName(c.cfg.Output.FilteredFile), Headers: fHeaders, Rows: fRows},
		)
		if err != nil {
			result.Error = eris.Wrap(err, "converter: write workbook")
			return result
		}
		result.WorkbookFile = path
		log.Info("workbook written", zap.String("file", path))
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// PIPELINE STAGES
// =============================================================================

// LoadSources checks and parses the four source files in merge order.
func (c *Converter) LoadSources() ([]merger.Source, error) {
	if err := c.fm.CheckSources(); err != nil {
		return nil, eris.Wrap(err, "converter: check sources")
	}

	sources := make([]merger.Source, 0, len(record.Categories))
	for _, cat := range record.Categories {
		data, err := csvparser.Parse(c.fm.SourcePath(cat), c.cfg.Input.CSVSettings)
		if err != nil {
			return nil, eris.Wrapf(err, "converter: load %s", cat.FileName())
		}
		sources = append(sources, merger.Source{Category: cat, Data: data})
	}

	return sources, nil
}

// Check loads the sources and runs the column checks only.
func (c *Converter) Check() ([]*validation.ValidationError, error) {
	sources, err := c.LoadSources()
	if err != nil {
		return nil, err
	}

	var findings []*validation.ValidationError
	for _, src := range sources {
		findings = append(findings, validation.ValidateSource(src.Category, src.Data)...)
	}
	return findings, nil
}

// BuildDocument renders records into a document. It returns warnings for
// records left out of the document.
func (c *Converter) BuildDocument(records []record.Report, extent *geom.Bounds, log *zap.Logger) (*latexwriter.Document, []string) {
	if log == nil {
		log = c.logger
	}

	opts := c.ReportOptions()
	if c.cfg.Report.ShowExtent {
		opts.Extent = extent
	}

	var warnings []string
	if c.cfg.Report.LegacySkipLast && len(records) > 0 {
		last := records[len(records)-1]
		records = records[:len(records)-1]
		msg := fmt.Sprintf("legacy mode: record %d (%s) left out of the document",
			last.DisplayIndex, last.Time.Format(record.TimeLayout))
		warnings = append(warnings, msg)
		log.Warn("legacy mode drops the final record", zap.Int("display_index", last.DisplayIndex))
	}

	doc := latexwriter.NewDocument(opts)
	for _, rec := range records {
		block := latexwriter.RenderRecord(rec, opts)
		if block.ImageErr != nil && !eris.Is(block.ImageErr, latexwriter.ErrNoImage) {
			log.Debug("image section omitted",
				zap.Int("display_index", rec.DisplayIndex),
				zap.Error(block.ImageErr),
			)
		}
		doc.Add(block)
	}

	return doc, warnings
}

// ReportOptions maps the report configuration onto writer options.
func (c *Converter) ReportOptions() latexwriter.ReportOptions {
	opts := latexwriter.DefaultReportOptions()
	r := c.cfg.Report

	opts.Title = r.Title
	opts.Author = r.Author
	opts.ImageDir = r.ImageDir
	if r.ImageWidth != "" {
		opts.ImageWidth = r.ImageWidth
	}
	if r.NoteWidth != "" {
		opts.NoteWidth = r.NoteWidth
	}
	if r.TimeFormat != "" {
		opts.TimeFormat = r.TimeFormat
	}
	if r.Encoding != "" {
		opts.Encoding = r.Encoding
	}

	return opts
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sheetForbidden lists the characters Excel rejects in worksheet names.
const sheetForbidden = `/\?*[]:`

// sheetName derives a worksheet name from an output file name: the base name
// without extension, forbidden characters removed, at most 31 characters.
func sheetName(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	name := []rune(strings.Map(func(r rune) rune {
		if strings.ContainsRune(sheetForbidden, r) {
			return -1
		}
		return r
	}, base))
	if len(name) > 31 {
		name = name[:31]
	}
	if len(name) == 0 {
		return "Sheet1"
	}
	return string(name)
}
