package latexwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func testOptions() ReportOptions {
	opts := DefaultReportOptions()
	opts.Title = "2017 Inner Mongolia"
	opts.Author = "A. Geologist"
	opts.ImageDir = "image_thumbnails"
	return opts
}

func TestDocument_FrontMatter(t *testing.T) {
	out := NewDocument(testOptions()).String()

	assert.True(t, strings.HasPrefix(out, "\\documentclass[11pt]{article}\n\\usepackage{amsmath}\n"))
	assert.Contains(t, out, "\\usepackage[T1]{fontenc}\n\\usepackage[latin1]{inputenc}\n\\usepackage{fancyhdr}\n")
	assert.Contains(t, out, `\geometry{hmargin={0.75in,0.75in},vmargin={1in,1in}}`)
	assert.Contains(t, out, `\rhead {\emph{\textcolor{blue}{A. Geologist}, \thepage ~of \pageref{LastPage}}}`)
	assert.Contains(t, out, `\lhead{2017 Inner Mongolia}`)
	assert.Contains(t, out, `\title{2017 Inner Mongolia Fieldmove Notes}`)
	assert.Contains(t, out, `\author{A. Geologist}`)
	assert.Contains(t, out, "\\begin{document}\n\\maketitle\nSummary of field notes")
	assert.Contains(t, out, "\\begin{longtable}{lllr}\n\\endhead\n\\endfoot\n\\endlastfoot\n")
	assert.NotContains(t, out, "Records span")
}

func TestDocument_EmptyBodyStillCloses(t *testing.T) {
	out := NewDocument(testOptions()).String()

	assert.True(t, strings.HasSuffix(out, "\\endlastfoot\n\\hline\n\\end{longtable}\n\\end{document}"))
}

func TestDocument_BlocksInOrder(t *testing.T) {
	doc := NewDocument(testOptions())
	for i := 1; i <= 3; i++ {
		rec := baseRecord()
		rec.DisplayIndex = i
		doc.Add(RenderRecord(rec, testOptions()))
	}

	out := doc.String()

	assert.Len(t, doc.Blocks(), 3)
	assert.Equal(t, 4, strings.Count(out, "\\hline\n"))
	first := strings.Index(out, "$_{1}$")
	second := strings.Index(out, "$_{2}$")
	third := strings.Index(out, "$_{3}$")
	assert.True(t, first < second && second < third)
	assert.True(t, strings.HasSuffix(out, "\\hline\n\\end{longtable}\n\\end{document}"))
}

func TestDocument_ScaffoldingIsNotEscaped(t *testing.T) {
	opts := testOptions()
	opts.Title = "100% Field"

	out := NewDocument(opts).String()

	assert.Contains(t, out, `\title{100% Field Fieldmove Notes}`)
}

func TestDocument_RenderLatin1(t *testing.T) {
	opts := testOptions()
	opts.Author = "José"

	doc := NewDocument(opts)
	rec := baseRecord()
	rec.Notes = text("café → north")
	doc.Add(RenderRecord(rec, opts))

	data, err := doc.Render()
	require.NoError(t, err)

	assert.Contains(t, string(data), "Jos\xe9")
	assert.Contains(t, string(data), "caf\xe9 ")
	assert.NotContains(t, string(data), "→")
	assert.Contains(t, string(data), "caf\xe9 ? north")
}

func TestDocument_RenderLatin1HasNoControlBytes(t *testing.T) {
	opts := testOptions()
	doc := NewDocument(opts)
	rec := baseRecord()
	rec.Notes = text("内蒙古 outcrop 😀 25°")
	doc.Add(RenderRecord(rec, opts))

	data, err := doc.Render()
	require.NoError(t, err)

	for i, b := range data {
		if b < 0x20 && b != '\n' {
			t.Fatalf("control byte %#x at offset %d", b, i)
		}
	}
	assert.Contains(t, string(data), "note:} ??? outcrop ? 25\xb0}")
}

func TestDocument_RenderUTF8(t *testing.T) {
	opts := testOptions()
	opts.Encoding = "utf8"
	opts.Author = "José"

	data, err := NewDocument(opts).Render()
	require.NoError(t, err)

	assert.Contains(t, string(data), `\usepackage[utf8]{inputenc}`)
	assert.Contains(t, string(data), "José")
}

func TestDocument_Extent(t *testing.T) {
	opts := testOptions()
	opts.Extent = geom.NewBounds(geom.XY).Set(110.5, 41.25, 111.75, 42.0)

	out := NewDocument(opts).String()

	assert.Contains(t, out, "Records span latitudes 41.2500 to 42.0000 and longitudes 110.5000 to 111.7500.")
}

func TestDocument_EmptyExtentIsIgnored(t *testing.T) {
	opts := testOptions()
	opts.Extent = geom.NewBounds(geom.XY)

	assert.NotContains(t, NewDocument(opts).String(), "Records span")
}

func TestRow_PadsAndTruncates(t *testing.T) {
	var sb strings.Builder
	cells := []Cell{{Raw("a")}, {Raw("b")}, {Raw("c")}, {Raw("d")}, {Raw("e")}}

	doc := NewDocument(testOptions())
	doc.Add(Row{Cells: cells})
	sb.WriteString(doc.String())

	assert.Contains(t, sb.String(), "a & b & c & d \\\\\n")
	assert.NotContains(t, sb.String(), "& e")
}
