// =============================================================================
// FieldMove Notes Merger - Projector Module
// =============================================================================
//
// This module narrows merged records to the fixed report field set.
//
// LOCALITY:
//   Older FieldMove exports have no " localityName" column at all. When no
//   source declared it, Project fills the column with EmptyLocality for every
//   record, so the column exists on every projected record either way.
//
// =============================================================================

package projector

import (
	"github.com/ginjaninja78/fieldmove-notes/internal/merger"
	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// EmptyLocality is the value synthesized when no source has a locality column.
const EmptyLocality = ""

// Projection is the filtered record set.
type Projection struct {
	Records []record.Report

	// LocalitySynthesized is set when the locality column was filled in.
	LocalitySynthesized bool

	// rows keeps the raw cells of the report columns for Table.
	rows []map[string]string
}

// Project builds typed report records from the merge result. Records keep
// the merge order and display index.
func Project(merged *merger.Result) *Projection {
	p := &Projection{
		LocalitySynthesized: !merged.HasColumn(record.ColLocalityName),
		Records:             make([]record.Report, 0, len(merged.Records)),
		rows:                make([]map[string]string, 0, len(merged.Records)),
	}

	for _, u := range merged.Records {
		cells := make(map[string]string, len(record.ReportColumns))
		for _, col := range record.ReportColumns[1:] {
			if v, ok := u.Value(col); ok {
				cells[col] = v
			}
		}
		if p.LocalitySynthesized {
			cells[record.ColLocalityName] = EmptyLocality
		}

		p.rows = append(p.rows, cells)
		p.Records = append(p.Records, toReport(u, cells))
	}

	return p
}

// toReport converts raw cells to typed optionals.
func toReport(u record.Unified, cells map[string]string) record.Report {
	text := func(col string) record.Text {
		v, ok := cells[col]
		return record.ParseText(v, ok)
	}
	num := func(col string) record.Float {
		v, ok := cells[col]
		return record.ParseFloat(v, ok)
	}

	return record.Report{
		DisplayIndex: u.DisplayIndex,
		Time:         u.Time,

		Latitude:     num(record.ColLatitude),
		Longitude:    num(record.ColLongitude),
		LocalityName: text(record.ColLocalityName),
		Notes:        text(record.ColNotes),
		ImageName:    text(record.ColImageName),
		Heading:      num(record.ColHeading),

		PlaneType:  text(record.ColPlaneType),
		DipAzimuth: num(record.ColDipAzimuth),
		Dip:        num(record.ColDip),

		LineationType: text(record.ColLineationType),
		PlungeAzimuth: num(record.ColPlungeAzimuth),
		Plunge:        num(record.ColPlunge),

		RockUnit:    text(record.ColRockUnit),
		Declination: num(record.ColDeclination),
	}
}

// Table renders the filtered table with exactly record.ReportColumns.
// Cells a record's source did not declare are written empty.
func (p *Projection) Table() ([]string, [][]string) {
	headers := make([]string, len(record.ReportColumns))
	copy(headers, record.ReportColumns)

	rows := make([][]string, 0, len(p.Records))
	for i, rec := range p.Records {
		row := make([]string, 0, len(headers))
		row = append(row, rec.Time.Format(record.TimeLayout))
		for _, col := range headers[1:] {
			row = append(row, p.rows[i][col])
		}
		rows = append(rows, row)
	}

	return headers, rows
}
