package csvparser

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// Write creates (or truncates) path and writes the table as UTF-8 CSV.
func Write(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csvparser: create %s", path)
	}

	if err := WriteTo(f, headers, rows); err != nil {
		f.Close()
		return eris.Wrapf(err, "csvparser: write %s", path)
	}

	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "csvparser: close %s", path)
	}

	return nil
}

// WriteTo writes the header row followed by rows to w.
func WriteTo(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return eris.Wrap(err, "csvparser: write header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return eris.Wrap(err, "csvparser: write rows")
	}

	return nil
}
