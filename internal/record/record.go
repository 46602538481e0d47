// =============================================================================
// FieldMove Notes Merger - Record Model
// =============================================================================
//
// This package contains the record model shared by the merger, the projector
// and the LaTeX writer. It defines:
//   - The four source categories exported by FieldMove Clino
//   - The verbatim column names used by the exporter
//   - Optional value types that keep "missing" distinct from zero and ""
//   - The Unified (merged) and Report (projected) record shapes
//
// COLUMN NAMES:
//   FieldMove writes a leading space in front of every column name except the
//   first. The constants below keep that space. Matching " dip" against "dip"
//   is the classic integration bug with these exports.
//
// =============================================================================

package record

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SOURCE CATEGORIES
// =============================================================================

// Category identifies which FieldMove export a raw row came from.
type Category int

const (
	CategoryImage Category = iota
	CategoryNote
	CategoryPlane
	CategoryLine
)

// Categories lists every category in merge order. Ties in the chronological
// sort are broken by this order.
var Categories = []Category{CategoryImage, CategoryNote, CategoryPlane, CategoryLine}

var categoryNames = map[Category]string{
	CategoryImage: "image",
	CategoryNote:  "note",
	CategoryPlane: "plane",
	CategoryLine:  "line",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// FileName returns the file name FieldMove uses for the category.
func (c Category) FileName() string {
	return c.String() + ".csv"
}

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Verbatim column names as produced by the exporter.
const (
	ColTimedate      = " timedate"
	ColLatitude      = " latitude"
	ColLongitude     = " longitude"
	ColLocalityName  = " localityName"
	ColNotes         = " notes"
	ColImageName     = " image name"
	ColHeading       = " heading"
	ColPlaneType     = " planeType"
	ColDipAzimuth    = " dipAzimuth"
	ColDip           = " dip"
	ColLineationType = " lineationType"
	ColPlungeAzimuth = " plungeAzimuth"
	ColPlunge        = " plunge"
	ColRockUnit      = " rockUnit"
	ColDeclination   = " declination"
)

// Derived columns added by the merger.
const (
	ColIndex = "index"
	ColTime  = "time"
)

// ReportColumns is the fixed, ordered field set of the filtered table.
var ReportColumns = []string{
	ColTime,
	ColLatitude,
	ColLongitude,
	ColLocalityName,
	ColNotes,
	ColImageName,
	ColHeading,
	ColPlaneType,
	ColDipAzimuth,
	ColDip,
	ColLineationType,
	ColPlungeAzimuth,
	ColPlunge,
	ColRockUnit,
	ColDeclination,
}

// TimeLayout formats the derived time column in the CSV outputs.
// Fractional seconds are kept when present.
const TimeLayout = "2006-01-02 15:04:05.999999-07:00"

// =============================================================================
// OPTIONAL VALUES
// =============================================================================

// Text is an optional string. Valid is false when no value was recorded.
type Text struct {
	Value string
	Valid bool
}

// Float is an optional number. Valid is false when no value was recorded,
// so a recorded 0 stays distinguishable from a missing measurement.
type Float struct {
	Value float64
	Valid bool
}

// ParseText builds a Text from a raw cell. Whitespace-only cells are missing.
func ParseText(raw string, present bool) Text {
	v := strings.TrimSpace(raw)
	if !present || v == "" {
		return Text{}
	}
	return Text{Value: v, Valid: true}
}

// ParseFloat builds a Float from a raw cell. Empty or non-numeric cells
// (including "nan" written by earlier tooling) are missing.
func ParseFloat(raw string, present bool) Float {
	v := strings.TrimSpace(raw)
	if !present || v == "" {
		return Float{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Float{}
	}
	return Float{Value: f, Valid: true}
}

// String returns the value, or "" when missing.
func (t Text) String() string {
	if !t.Valid {
		return ""
	}
	return t.Value
}

// Round1 formats the value with one decimal place, or "" when missing.
func (f Float) Round1() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', 1, 64)
}

// String formats the value with the shortest exact representation.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// =============================================================================
// RECORDS
// =============================================================================

// Unified is a merged row. It carries every source column plus the parsed
// timestamp and the display index assigned after sorting.
type Unified struct {
	DisplayIndex int
	SourceIndex  int
	Time         time.Time
	Fields       map[string]string
}

// Value returns the raw cell for a column and whether the column was present.
func (u Unified) Value(column string) (string, bool) {
	v, ok := u.Fields[column]
	return v, ok
}

// Report is a record narrowed to the fixed report field set.
type Report struct {
	DisplayIndex int
	Time         time.Time

	Latitude     Float
	Longitude    Float
	LocalityName Text
	Notes        Text
	ImageName    Text
	Heading      Float

	PlaneType  Text
	DipAzimuth Float
	Dip        Float

	LineationType Text
	PlungeAzimuth Float
	Plunge        Float

	RockUnit    Text
	Declination Float
}

// HasLocation reports whether both coordinates were recorded.
func (r Report) HasLocation() bool {
	return r.Latitude.Valid && r.Longitude.Valid
}
