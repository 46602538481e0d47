// =============================================================================
// FieldMove Notes Merger - LaTeX Writer Module
// =============================================================================
//
// This module assembles the LaTeX report. The document is held as a list of
// typed blocks and only turned into text in Render, which keeps escaping of
// user text (Text inlines) apart from the markup around it (Raw inlines and
// the fixed front and back matter).
//
// DOCUMENT STRUCTURE:
//
//   \documentclass[11pt]{article}     % preamble: packages, geometry
//   \pagestyle{fancy} ...             % running header: author, title
//   \title{...} \author{...}          % title block
//   \begin{document} \maketitle
//   Summary of field notes ...
//   \begin{longtable}{lllr}
//     \hline                          % one RecordBlock per record
//     $_{1}$ & & & \\
//     \textbf{time:} ... & \textbf{lat:} ... & \textbf{lon:} ... & \\
//     ...
//     \hline                          % closing rule
//   \end{longtable}
//   \end{document}
//
// =============================================================================

package latexwriter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// Columns is the number of longtable columns.
const Columns = 4

// =============================================================================
// REPORT OPTIONS
// =============================================================================

// ReportOptions contains the values used to build front matter and records.
type ReportOptions struct {
	// Title is the year and field area. " Fieldmove Notes" is appended.
	Title string

	// Author appears in the title block and the running header.
	Author string

	// ImageDir is joined with each image name in \includegraphics.
	ImageDir string

	// ImageWidth is the \includegraphics width.
	ImageWidth string

	// NoteWidth is the paragraph width of the note row.
	NoteWidth string

	// TimeFormat is the Go layout of the time: cell.
	TimeFormat string

	// Encoding is "latin1" or "utf8".
	Encoding string

	// Extent, when non-nil and non-empty, is described in the summary.
	// X is longitude, Y is latitude.
	Extent *geom.Bounds
}

// DefaultReportOptions returns the standard field book layout.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		ImageWidth: "2 in",
		NoteWidth:  "6.5 in",
		TimeFormat: record.TimeLayout,
		Encoding:   "latin1",
	}
}

func (o ReportOptions) utf8() bool {
	switch strings.ToLower(o.Encoding) {
	case "utf8", "utf-8":
		return true
	}
	return false
}

// =============================================================================
// BLOCK TREE
// =============================================================================

// Inline is a piece of cell content.
type Inline interface {
	latex() string
}

// Text is user-authored text. It is escaped when rendered.
type Text string

// Raw is markup emitted verbatim.
type Raw string

// Label is a bold field label such as "dip:".
type Label string

func (t Text) latex() string  { return Escape(string(t)) }
func (r Raw) latex() string   { return string(r) }
func (l Label) latex() string { return `\textbf{` + string(l) + `}` }

// Cell is one table cell.
type Cell []Inline

func (c Cell) latex() string {
	var b strings.Builder
	for _, in := range c {
		b.WriteString(in.latex())
	}
	return b.String()
}

// Labeled builds a cell of a bold label followed by its value.
func Labeled(label string, value ...Inline) Cell {
	cell := Cell{Label(label), Raw(" ")}
	return append(cell, value...)
}

// Row is one longtable row. Rows with fewer than Columns cells are padded.
// When Span is set the first cell spans every column with that column spec,
// e.g. "p{6.5 in}".
type Row struct {
	Cells []Cell
	Span  string
}

func (r Row) render(buf *bytes.Buffer) {
	if r.Span != "" {
		var content string
		if len(r.Cells) > 0 {
			content = r.Cells[0].latex()
		}
		fmt.Fprintf(buf, "\\multicolumn{%d}{%s}{%s} \\\\\n", Columns, r.Span, content)
		return
	}

	cells := make([]string, Columns)
	for i := 0; i < len(r.Cells) && i < Columns; i++ {
		cells[i] = r.Cells[i].latex()
	}
	buf.WriteString(strings.Join(cells, " & "))
	buf.WriteString(" \\\\\n")
}

// Block is a top-level element of the table body.
type Block interface {
	render(buf *bytes.Buffer)
}

// Rule is a horizontal rule.
type Rule struct{}

func (Rule) render(buf *bytes.Buffer) { buf.WriteString("\\hline\n") }

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is an in-memory LaTeX report.
type Document struct {
	opts   ReportOptions
	blocks []Block
}

// NewDocument creates an empty report.
func NewDocument(opts ReportOptions) *Document {
	return &Document{opts: opts}
}

// Add appends a block to the table body.
func (d *Document) Add(b Block) {
	d.blocks = append(d.blocks, b)
}

// Blocks returns the body blocks added so far.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// String renders the document as UTF-8 text.
func (d *Document) String() string {
	var buf bytes.Buffer

	buf.WriteString(d.preamble())
	buf.WriteString(d.runningHeader())
	buf.WriteString(d.titleBlock())
	buf.WriteString(d.start())

	for _, b := range d.blocks {
		b.render(&buf)
	}
	Rule{}.render(&buf)

	buf.WriteString("\\end{longtable}\n")
	buf.WriteString("\\end{document}")

	return buf.String()
}

// Unencodable is written in place of runes latin1 cannot hold.
const Unencodable = '?'

// latin1Safe maps runes outside ISO-8859-1 to Unencodable so the encoder
// never emits its 0x1A substitute byte.
var latin1Safe = runes.Map(func(r rune) rune {
	if _, ok := charmap.ISO8859_1.EncodeRune(r); ok {
		return r
	}
	return Unencodable
})

// Render returns the document encoded for the configured inputenc.
// With latin1, runes outside ISO-8859-1 become Unencodable.
func (d *Document) Render() ([]byte, error) {
	text := d.String()
	if d.opts.utf8() {
		return []byte(text), nil
	}

	enc := transform.Chain(latin1Safe, charmap.ISO8859_1.NewEncoder())
	out, _, err := transform.String(enc, text)
	if err != nil {
		return nil, eris.Wrap(err, "latexwriter: encode latin1")
	}
	return []byte(out), nil
}

// =============================================================================
// FRONT MATTER
// =============================================================================

// packages in preamble order; inputenc is inserted after fontenc.
var (
	packagesBefore = []string{
		`\usepackage{amsmath}`,
		`\usepackage{amsfonts}`,
		`\usepackage{amssymb}`,
		`\usepackage{wasysym}`,
		`\usepackage{graphicx}`,
		`\usepackage{pslatex}`,
		`\usepackage{lscape}`,
		`\usepackage[T1]{fontenc}`,
	}
	packagesAfter = []string{
		`\usepackage{fancyhdr}`,
		`\usepackage{lastpage}`,
		`\usepackage[english]{babel}`,
		`\usepackage[usenames, dvipsnames]{color}`,
		`\usepackage{color}`,
		`\usepackage{booktabs}`,
		`\usepackage{longtable}`,
		`\usepackage{geometry}`,
	}
)

func (d *Document) preamble() string {
	inputenc := `\usepackage[latin1]{inputenc}`
	if d.opts.utf8() {
		inputenc = `\usepackage[utf8]{inputenc}`
	}

	lines := make([]string, 0, len(packagesBefore)+len(packagesAfter)+3)
	lines = append(lines, `\documentclass[11pt]{article}`)
	lines = append(lines, packagesBefore...)
	lines = append(lines, inputenc)
	lines = append(lines, packagesAfter...)
	lines = append(lines, `\geometry{hmargin={0.75in,0.75in},vmargin={1in,1in}}`)

	return strings.Join(lines, "\n") + "\n"
}

func (d *Document) runningHeader() string {
	return "\\pagestyle{fancy}\n" +
		"\\rhead {\\emph{\\textcolor{blue}{" + d.opts.Author + "}, \\thepage ~of \\pageref{LastPage}}}\n" +
		"\\lhead{" + d.opts.Title + "}\n" +
		"\\cfoot{}\n" +
		"\\renewcommand{\\headrulewidth}{0.4pt}\n"
}

func (d *Document) titleBlock() string {
	return "\\title{" + d.opts.Title + " Fieldmove Notes}\n" +
		"\\author{" + d.opts.Author + "}\n" +
		"\\date{\\vspace{-5ex}}\n"
}

func (d *Document) start() string {
	return "\\begin{document}\n" +
		"\\maketitle\n" +
		d.summary() + "\n" +
		"\\begin{longtable}{lllr}\n" +
		"\\endhead\n" +
		"\\endfoot\n" +
		"\\endlastfoot\n"
}

func (d *Document) summary() string {
	s := "Summary of field notes made on an iPad using the Fieldmove app." +
		" All coordinates are in WGS84." +
		" Plane dip directions and line azimuths are corrected for local magnetic declination."

	if e := d.opts.Extent; e != nil && !e.IsEmpty() {
		s += fmt.Sprintf(" Records span latitudes %.4f to %.4f and longitudes %.4f to %.4f.",
			e.Min(1), e.Max(1), e.Min(0), e.Max(0))
	}
	return s
}
