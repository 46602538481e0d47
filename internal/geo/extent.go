// Package geo holds WGS84 helpers for located survey records.
package geo

import (
	"github.com/twpayne/go-geom"

	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// SRID is the spatial reference of FieldMove coordinates (WGS84).
const SRID = 4326

// Point returns the record location as an XY point (X = longitude,
// Y = latitude), or nil when either coordinate is missing.
func Point(r record.Report) *geom.Point {
	if !r.HasLocation() {
		return nil
	}
	return geom.NewPointFlat(geom.XY, []float64{r.Longitude.Value, r.Latitude.Value}).SetSRID(SRID)
}

// Extent returns the bounding box of every located record. The result is
// empty (IsEmpty) when no record has both coordinates.
func Extent(records []record.Report) *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, r := range records {
		if p := Point(r); p != nil {
			b.Extend(p)
		}
	}
	return b
}

// Located counts records with both coordinates.
func Located(records []record.Report) int {
	n := 0
	for _, r := range records {
		if r.HasLocation() {
			n++
		}
	}
	return n
}
