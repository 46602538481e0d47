package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

func defaultSettings() config.CSVSettings {
	return config.Default().Input.CSVSettings
}

func TestParseReader_KeepsLeadingSpaceInHeaders(t *testing.T) {
	in := "id, timedate, dip\n1, 2017-06-01 10:00:00+08:00, 35\n"

	data, err := ParseReader(strings.NewReader(in), "plane.csv", defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", " timedate", " dip"}, data.Headers)
	assert.True(t, data.HasColumn(" dip"))
	assert.False(t, data.HasColumn("dip"))
	require.Equal(t, 1, data.RowCount)
	assert.Equal(t, " 35", data.Rows[0][" dip"])
	assert.Equal(t, "plane.csv", data.SourceFile)
}

func TestParseReader_StripsUTF8BOM(t *testing.T) {
	in := "\xef\xbb\xbfid, timedate\n1, 2017-06-01\n"

	data, err := ParseReader(strings.NewReader(in), "note.csv", defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "id", data.Headers[0])
}

func TestParseReader_Latin1(t *testing.T) {
	in := []byte("id, notes\n1, caf\xe9\n")

	settings := defaultSettings()
	settings.Encoding = "latin1"

	data, err := ParseReader(bytes.NewReader(in), "note.csv", settings)
	require.NoError(t, err)

	assert.Equal(t, " café", data.Rows[0][" notes"])
}

func TestParseReader_EmptyInput(t *testing.T) {
	data, err := ParseReader(strings.NewReader(""), "line.csv", defaultSettings())
	require.NoError(t, err)

	assert.Empty(t, data.Headers)
	assert.Empty(t, data.Rows)
	assert.Equal(t, 0, data.RowCount)
}

func TestParseReader_HeaderOnly(t *testing.T) {
	data, err := ParseReader(strings.NewReader("id, timedate\n"), "line.csv", defaultSettings())
	require.NoError(t, err)

	assert.Len(t, data.Headers, 2)
	assert.Equal(t, 0, data.RowCount)
}

func TestParseReader_PadsShortRowsAndSkipsBlankRows(t *testing.T) {
	in := "id, timedate, notes\n1, 2017-06-01\n,,\n2, 2017-06-02, ok\n"

	data, err := ParseReader(strings.NewReader(in), "note.csv", defaultSettings())
	require.NoError(t, err)

	require.Equal(t, 2, data.RowCount)
	v, ok := data.Rows[0][" notes"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, " ok", data.Rows[1][" notes"])
}

func TestParseReader_QuotedNotes(t *testing.T) {
	in := "id, notes\n1,\"sandstone, cross-bedded\"\n2, 5\" thick bed\n"

	data, err := ParseReader(strings.NewReader(in), "note.csv", defaultSettings())
	require.NoError(t, err)

	require.Equal(t, 2, data.RowCount)
	assert.Equal(t, "sandstone, cross-bedded", data.Rows[0][" notes"])
	assert.Equal(t, ` 5" thick bed`, data.Rows[1][" notes"])
}

func TestParseReader_Semicolon(t *testing.T) {
	settings := defaultSettings()
	settings.Delimiter = ";"

	data, err := ParseReader(strings.NewReader("id; dip\n1; 10\n"), "plane.csv", settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", " dip"}, data.Headers)
	assert.Equal(t, " 10", data.Rows[0][" dip"])
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings())
	assert.Error(t, err)
}

func TestWrite_RoundTripsVerbatimHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_notes.csv")
	headers := []string{"index", " timedate", " notes", "time"}
	rows := [][]string{{"0", "2017-06-01", "a, b", "2017-06-01 00:00:00+00:00"}}

	require.NoError(t, Write(path, headers, rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// encoding/csv quotes fields that start with a space.
	assert.True(t, strings.HasPrefix(string(raw), `index," timedate"," notes",time`+"\n"))

	data, err := Parse(path, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, headers, data.Headers)
	assert.Equal(t, "a, b", data.Rows[0][" notes"])
}

func TestWriteTo_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, []string{"time", " dip"}, nil))
	assert.Equal(t, `time," dip"`+"\n", buf.String())
}
