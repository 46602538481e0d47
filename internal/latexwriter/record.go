// =============================================================================
// FieldMove Notes Merger - Record Rendering
// =============================================================================
//
// RenderRecord turns one projected record into a RecordBlock. Each section is
// gated independently on the fields the record carries:
//
//   SECTION     GATE                          CONTENT
//   header      always                        time, lat, lon
//   locality    locality recorded             locality name
//   notes       always                        note text (full width)
//   image       image name well formed        label, heading, \includegraphics
//   formation   rock unit recorded            fm
//   plane       dip recorded                  plane type, dip, dip dir., mag. dec.
//   line        plunge recorded               line type, plunge, azimuth, mag. dec.
//
// Measurements are printed with one decimal place. Inside a rendered section
// a missing value prints as an empty cell.
//
// =============================================================================

package latexwriter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// =============================================================================
// SECTIONS
// =============================================================================

// SectionKind identifies a record sub-section.
type SectionKind int

const (
	SectionHeader SectionKind = iota
	SectionLocality
	SectionNotes
	SectionImage
	SectionFormation
	SectionPlane
	SectionLine
)

var sectionNames = map[SectionKind]string{
	SectionHeader:    "header",
	SectionLocality:  "locality",
	SectionNotes:     "notes",
	SectionImage:     "image",
	SectionFormation: "formation",
	SectionPlane:     "plane",
	SectionLine:      "line",
}

func (k SectionKind) String() string {
	if n, ok := sectionNames[k]; ok {
		return n
	}
	return "unknown"
}

// Section is a group of rows produced by one gate.
type Section struct {
	Kind SectionKind
	Rows []Row
}

// RecordBlock is the rendered form of one record.
type RecordBlock struct {
	Index    int
	Sections []Section

	// ImageErr is why the image section was left out, if it was.
	ImageErr error
}

// Has reports whether the block contains a section of the given kind.
func (b RecordBlock) Has(kind SectionKind) bool {
	for _, s := range b.Sections {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func (b RecordBlock) render(buf *bytes.Buffer) {
	Rule{}.render(buf)
	Row{Cells: []Cell{{Raw(fmt.Sprintf("$_{%d}$", b.Index))}}}.render(buf)
	for _, s := range b.Sections {
		for _, r := range s.Rows {
			r.render(buf)
		}
	}
}

// =============================================================================
// IMAGE NAMES
// =============================================================================

var (
	// ErrNoImage means the record has no image name.
	ErrNoImage = eris.New("latexwriter: no image name")

	// ErrBlankImageName means the image name is only whitespace. Parsed
	// cells never get here since record.ParseText marks blank cells
	// invalid; it guards records built by hand.
	ErrBlankImageName = eris.New("latexwriter: blank image name")

	// ErrInvalidImageName means the name cannot be used as a file reference.
	ErrInvalidImageName = eris.New("latexwriter: invalid image name")
)

// ImageName is a parsed image identifier.
type ImageName struct {
	// File is the trimmed name used in \includegraphics.
	File string

	// Parts are the "_"-separated pieces, shown joined by a literal
	// underscore in the label.
	Parts []string
}

// ParseImageName validates an image name. The only failures are a missing
// value, a blank value, or a value containing a path separator, a brace or
// a control character.
func ParseImageName(t record.Text) (ImageName, error) {
	if !t.Valid {
		return ImageName{}, ErrNoImage
	}

	name := strings.TrimSpace(t.Value)
	if name == "" {
		return ImageName{}, ErrBlankImageName
	}

	if strings.ContainsAny(name, `/\{}`) || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return ImageName{}, eris.Wrapf(ErrInvalidImageName, "%q", name)
	}

	return ImageName{File: name, Parts: strings.Split(name, "_")}, nil
}

// label renders the parts with a literal underscore between them.
func (n ImageName) label() []Inline {
	out := make([]Inline, 0, 2*len(n.Parts))
	for i, p := range n.Parts {
		if i > 0 {
			out = append(out, Raw(`\_`))
		}
		out = append(out, Text(p))
	}
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderRecord builds the block for one record.
func RenderRecord(rec record.Report, opts ReportOptions) RecordBlock {
	block := RecordBlock{Index: rec.DisplayIndex}

	block.Sections = append(block.Sections, Section{
		Kind: SectionHeader,
		Rows: []Row{{Cells: []Cell{
			Labeled("time:", Text(rec.Time.Format(opts.TimeFormat))),
			Labeled("lat:", Raw(rec.Latitude.String())),
			Labeled("lon:", Raw(rec.Longitude.String())),
		}}},
	})

	if rec.LocalityName.Valid {
		block.Sections = append(block.Sections, Section{
			Kind: SectionLocality,
			Rows: []Row{{Cells: []Cell{
				Labeled("locality:", Text(rec.LocalityName.Value)),
			}}},
		})
	}

	block.Sections = append(block.Sections, Section{
		Kind: SectionNotes,
		Rows: []Row{{
			Span:  "p{" + opts.NoteWidth + "}",
			Cells: []Cell{Labeled("note:", Text(rec.Notes.String()))},
		}},
	})

	if img, err := ParseImageName(rec.ImageName); err != nil {
		block.ImageErr = err
	} else {
		block.Sections = append(block.Sections, imageSection(img, rec.Heading, opts))
	}

	if rec.RockUnit.Valid {
		block.Sections = append(block.Sections, Section{
			Kind: SectionFormation,
			Rows: []Row{{Cells: []Cell{
				Labeled("fm:", Text(rec.RockUnit.Value)),
			}}},
		})
	}

	if rec.Dip.Valid {
		block.Sections = append(block.Sections, Section{
			Kind: SectionPlane,
			Rows: []Row{
				{Cells: []Cell{
					Labeled("plane:", Text(rec.PlaneType.String())),
					Labeled("dip:", Raw(rec.Dip.Round1())),
					Labeled("dip dir.:", Raw(rec.DipAzimuth.Round1())),
				}},
				{Cells: []Cell{
					Labeled("mag. dec.:", Raw(rec.Declination.Round1())),
				}},
			},
		})
	}

	if rec.Plunge.Valid {
		block.Sections = append(block.Sections, Section{
			Kind: SectionLine,
			Rows: []Row{{Cells: []Cell{
				Labeled("line:", Text(rec.LineationType.String())),
				Labeled("plunge:", Raw(rec.Plunge.Round1())),
				Labeled("azimuth:", Raw(rec.PlungeAzimuth.Round1())),
				Labeled("mag. dec.:", Raw(rec.Declination.Round1())),
			}}},
		})
	}

	return block
}

func imageSection(img ImageName, heading record.Float, opts ReportOptions) Section {
	prefix := strings.TrimRight(opts.ImageDir, "/")
	if prefix != "" {
		prefix += "/"
	}

	graphic := Cell{
		Raw(`\includegraphics[width=` + opts.ImageWidth + `]{` + prefix),
		Text(img.File),
		Raw(`}`),
	}

	return Section{
		Kind: SectionImage,
		Rows: []Row{{Cells: []Cell{
			Labeled("image:", img.label()...),
			Labeled("heading:", Raw(heading.Round1())),
			{},
			graphic,
		}}},
	}
}
