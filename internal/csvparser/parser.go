// =============================================================================
// FieldMove Notes Merger - CSV Parser Module
// =============================================================================
//
// This module reads the CSV files exported by FieldMove Clino into an
// in-memory table. It handles:
//   - Different delimiters (comma by default)
//   - UTF-8 input with or without a byte order mark, or ISO-8859-1
//   - Quoted fields, including sloppy quoting inside free-text notes
//   - Rows with fewer cells than the header
//
// VERBATIM NAMES:
//   FieldMove writes headers like "id, timedate, latitude". The leading space
//   in " timedate" is part of the column name and every downstream lookup
//   uses it. The parser therefore never trims header names or cell values;
//   typed parsing in the record package trims where it matters.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the column names exactly as written in the file.
	Headers []string

	// Rows contains the data rows as maps of header -> value. Every header
	// is present in every row; short rows are padded with "".
	Rows []map[string]string

	// SourceFile is the path (or name) of the source.
	SourceFile string

	// RowCount is the number of data rows (excluding the header).
	RowCount int
}

// HasColumn reports whether the file declares the column, matched verbatim.
func (d *CSVData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The parsed data. A zero-byte or header-only file yields zero rows.
//   - An error if the file cannot be opened or is not valid CSV.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "csvparser: open %s", filePath)
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader parses CSV from r. name is recorded as the SourceFile.
func ParseReader(r io.Reader, name string, settings config.CSVSettings) (*CSVData, error) {
	reader := csv.NewReader(decode(bufio.NewReader(r), settings.Encoding))
	configureReader(reader, settings)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csvparser: read %s", name)
	}

	data := &CSVData{
		SourceFile: name,
		Rows:       []map[string]string{},
	}

	if len(allRows) == 0 {
		return data, nil
	}

	data.Headers = allRows[0]
	data.Rows = extractDataRows(allRows[1:], data.Headers)
	data.RowCount = len(data.Rows)

	return data, nil
}

// decode wraps r with a decoder for the configured encoding.
func decode(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(encoding) {
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		// Strips a leading UTF-8 BOM, which would otherwise end up inside
		// the first column name.
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Rows from older exports may be shorter than the header.
	reader.FieldsPerRecord = -1

	// Notes are typed in the field and sometimes contain stray quotes.
	reader.LazyQuotes = true

	// Must stay false: it would strip the space in " timedate".
	reader.TrimLeadingSpace = false
}

// extractDataRows converts data rows to maps keyed by header.
func extractDataRows(rows [][]string, headers []string) []map[string]string {
	dataRows := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = row[colIndex]
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
	}

	return dataRows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
