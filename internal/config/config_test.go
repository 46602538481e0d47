package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, ",", cfg.Input.Delimiter)
	assert.Equal(t, "utf-8", cfg.Input.Encoding)
	assert.Equal(t, "latin1", cfg.Report.Encoding)
	assert.Equal(t, "all_notes.csv", cfg.Output.MergedFile)
	assert.Equal(t, "all_notes_filtered.csv", cfg.Output.FilteredFile)
	assert.Equal(t, "latexoutput.tex", cfg.Output.DocumentFile)
	assert.False(t, cfg.Report.LegacySkipLast)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  dir: /data/project1.fm
  encoding: latin1
report:
  title: 2017 Inner Mongolia
  author: A. Geologist
  image_dir: image_thumbnails
  legacy_skip_last: true
output:
  workbook: notes.xlsx
log:
  level: debug
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/data/project1.fm", cfg.Input.Dir)
	assert.Equal(t, "latin1", cfg.Input.Encoding)
	assert.Equal(t, ",", cfg.Input.Delimiter)
	assert.Equal(t, "2017 Inner Mongolia", cfg.Report.Title)
	assert.Equal(t, "image_thumbnails", cfg.Report.ImageDir)
	assert.True(t, cfg.Report.LegacySkipLast)
	assert.Equal(t, "2 in", cfg.Report.ImageWidth)
	assert.Equal(t, "notes.xlsx", cfg.Output.Workbook)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("report:\n  author: From File\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "From File", cfg.Report.Author)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIELDMOVE_REPORT_TITLE", "From Env")
	t.Setenv("FIELDMOVE_INPUT_DIR", "/env/dir")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "From Env", cfg.Report.Title)
	assert.Equal(t, "/env/dir", cfg.Input.Dir)
}

func TestLoad_FlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIELDMOVE_REPORT_AUTHOR", "From Env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("author", "", "")
	flags.String("title", "", "")
	flags.Bool("show-extent", false, "")
	require.NoError(t, flags.Parse([]string{"--author", "From Flag", "--show-extent"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "From Flag", cfg.Report.Author)
	assert.Equal(t, "", cfg.Report.Title)
	assert.True(t, cfg.Report.ShowExtent)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Input.Dir = filepath.Join(t.TempDir(), "missing")
	assert.Error(t, cfg.Validate())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.Input.Dir = file
	assert.Error(t, cfg.Validate())

	cfg.Input.Dir = t.TempDir()
	assert.NoError(t, cfg.Validate())

	cfg.Input.Encoding = "ebcdic"
	assert.Error(t, cfg.Validate())

	cfg.Input.Encoding = "latin1"
	cfg.Report.Encoding = "utf16"
	assert.Error(t, cfg.Validate())
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	require.NoError(t, WriteDefault(path, false))
	assert.Error(t, WriteDefault(path, false))
	assert.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestInitLogger(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "console"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}
