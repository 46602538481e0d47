// =============================================================================
// FieldMove Notes Merger - XLSX Workbook Export
// =============================================================================
//
// This module writes the merged and filtered tables into one workbook, one
// sheet per table, for people who review field notes in a spreadsheet rather
// than in the PDF. It is only used when output.workbook is configured.
//
// SHEET LAYOUT:
//   Row 1        : column names, verbatim (leading spaces kept), bold
//   Rows 2..N+1  : cells as strings, exactly as in the CSV outputs
//
// =============================================================================

package xlsxwriter

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Sheet is one table to export.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Write creates the workbook at path with the given sheets in order.
func Write(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return eris.New("xlsxwriter: no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return eris.Wrap(err, "xlsxwriter: header style")
	}

	// A new file starts with "Sheet1"; reuse it for the first table.
	if err := f.SetSheetName(f.GetSheetName(0), sheets[0].Name); err != nil {
		return eris.Wrapf(err, "xlsxwriter: rename sheet to %s", sheets[0].Name)
	}

	for i, sheet := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return eris.Wrapf(err, "xlsxwriter: add sheet %s", sheet.Name)
			}
		}

		if err := writeSheet(f, sheet); err != nil {
			return err
		}

		if err := f.SetRowStyle(sheet.Name, 1, 1, bold); err != nil {
			return eris.Wrapf(err, "xlsxwriter: style header of %s", sheet.Name)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "xlsxwriter: save %s", path)
	}

	return nil
}

// writeSheet writes the header and rows of one sheet.
func writeSheet(f *excelize.File, sheet Sheet) error {
	if err := setRow(f, sheet.Name, 1, sheet.Headers); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		if err := setRow(f, sheet.Name, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return eris.Wrapf(err, "xlsxwriter: cell name for row %d", rowNum)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return eris.Wrapf(err, "xlsxwriter: write row %d of %s", rowNum, sheet)
	}

	return nil
}
