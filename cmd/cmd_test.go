package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

var exportFiles = map[string]string{
	"image.csv": "id, timedate, latitude, longitude, notes, image name, heading\n" +
		"0, 2017-06-01 08:00:00+08:00, 41.1, 111.1, photo, IMG_0001, 90\n",
	"note.csv": "id, timedate, latitude, longitude, notes\n" +
		"0, 2017-06-01 09:00:00+08:00, 41.3, 111.3, note\n",
	"plane.csv": "id, timedate, latitude, longitude, notes, planeType, dipAzimuth, dip, rockUnit, declination\n",
	"line.csv":  "id, timedate, latitude, longitude, notes, lineationType, plungeAzimuth, plunge, rockUnit, declination\n",
}

func writeExport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range exportFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so commands can be executed
// more than once in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestPrompts_OnlyMissingValues(t *testing.T) {
	c := config.Default()
	c.Report.Author = "A. Geologist"

	ps := prompts(&c)

	require.Len(t, ps, 3)
	assert.Contains(t, ps[0].question, ".fm folder")
	assert.Equal(t, "Enter the year and field area: ", ps[1].question)
	assert.Contains(t, ps[2].question, "image_thumbnails")
}

func TestAsk_FillsAnswersInOrder(t *testing.T) {
	c := config.Default()
	var out bytes.Buffer

	err := ask(prompts(&c), strings.NewReader("/data/p1.fm\n2017 Inner Mongolia\r\nA. Geologist\nthumbs"), &out)
	require.NoError(t, err)

	assert.Equal(t, "/data/p1.fm", c.Input.Dir)
	assert.Equal(t, "2017 Inner Mongolia", c.Report.Title)
	assert.Equal(t, "A. Geologist", c.Report.Author)
	assert.Equal(t, "thumbs", c.Report.ImageDir)
	assert.Contains(t, out.String(), "Enter your name: ")
}

func TestAsk_InputEndsEarly(t *testing.T) {
	c := config.Default()

	err := ask(prompts(&c), strings.NewReader("/data/p1.fm\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDirPrompt(t *testing.T) {
	c := config.Default()
	require.Len(t, dirPrompt(&c), 1)

	c.Input.Dir = "/data"
	assert.Empty(t, dirPrompt(&c))
}

func TestProcessCommand_NoPrompt(t *testing.T) {
	dir := writeExport(t)

	out, err := execute(t, "", "process", "--no-prompt", "--dir", dir,
		"--title", "2017 Field", "--author", "Tester", "--image-dir", "img")
	require.NoError(t, err)

	assert.Contains(t, out, "Records written: 2")
	assert.FileExists(t, filepath.Join(dir, "all_notes.csv"))
	assert.FileExists(t, filepath.Join(dir, "all_notes_filtered.csv"))

	doc, err := os.ReadFile(filepath.Join(dir, "latexoutput.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), `\title{2017 Field Fieldmove Notes}`)
	assert.Contains(t, string(doc), `{img/IMG_0001}`)
}

func TestProcessCommand_PromptsForMissingValues(t *testing.T) {
	dir := writeExport(t)

	out, err := execute(t, "My Title\nMe\nimg\n", "process", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Enter the year and field area: ")
	doc, err := os.ReadFile(filepath.Join(dir, "latexoutput.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), `\author{Me}`)
}

func TestProcessCommand_MissingSource(t *testing.T) {
	dir := writeExport(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "line.csv")))

	_, err := execute(t, "", "process", "--no-prompt", "--dir", dir, "--title", "T", "--author", "A", "--image-dir", "i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line.csv")
}

func TestValidateCommand(t *testing.T) {
	dir := writeExport(t)

	out, err := execute(t, "", "validate", "--no-prompt", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No column problems found.")
	assert.NoFileExists(t, filepath.Join(dir, "latexoutput.tex"))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldmove.yaml")

	out, err := execute(t, "", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "", "init", path)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "FieldMove Notes Merger")
	assert.Contains(t, out, "Version:    "+Version)
}

func TestCommandFlags(t *testing.T) {
	for _, name := range []string{"dir", "title", "author", "image-dir", "encoding", "workbook", "legacy-skip-last", "show-extent", "no-prompt"} {
		assert.NotNil(t, processCmd.Flags().Lookup(name), "process should have --%s", name)
	}
	assert.NotNil(t, watchCmd.Flags().Lookup("debounce"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))

	for name := range config.FlagKeys {
		if name == "log-level" || name == "log-format" {
			continue
		}
		assert.NotNil(t, processCmd.Flags().Lookup(name), "config key flag --%s should exist on process", name)
	}
}
