// =============================================================================
// FieldMove Notes Merger - Configuration Module
// =============================================================================
//
// This module is responsible for loading the run configuration and setting up
// logging. Configuration comes from, in increasing precedence:
//   1. Built-in defaults (see setDefaults)
//   2. An optional YAML file (default: fieldmove.yaml in the working directory)
//   3. Environment variables prefixed FIELDMOVE_ (e.g. FIELDMOVE_INPUT_DIR)
//   4. Command line flags bound by the cmd package
//
// The four values that are normally answered interactively (input directory,
// report title, author name and image folder) may be left empty here. The cmd
// package prompts for them before the pipeline starts.
//
// =============================================================================

package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = "fieldmove.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FIELDMOVE"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the FieldMove export.
type InputConfig struct {
	// Dir is the .fm folder exported by FieldMove Clino. It must contain
	// image.csv, note.csv, plane.csv and line.csv. Outputs are written here.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// CSVSettings controls how the four source files are decoded.
	CSVSettings `yaml:",inline" mapstructure:",squash"`
}

// CSVSettings contains settings for parsing the source CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Only the first character is used.
	// Default: ","
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`

	// Encoding of the source files: "utf-8" (a leading BOM is dropped) or
	// "latin1".
	// Default: "utf-8"
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// ReportConfig controls the LaTeX document.
type ReportConfig struct {
	// Title is the year and field area, e.g. "2017 Inner Mongolia".
	Title string `yaml:"title" mapstructure:"title"`

	// Author appears in the title block and in the running header.
	Author string `yaml:"author" mapstructure:"author"`

	// ImageDir is the image folder referenced (not copied) by the document,
	// relative to the .tex file, e.g. "image_thumbnails".
	ImageDir string `yaml:"image_dir" mapstructure:"image_dir"`

	// ImageWidth is the \includegraphics width.
	// Default: "2 in"
	ImageWidth string `yaml:"image_width" mapstructure:"image_width"`

	// NoteWidth is the paragraph width of the note row.
	// Default: "6.5 in"
	NoteWidth string `yaml:"note_width" mapstructure:"note_width"`

	// TimeFormat is the Go layout used for the time: cell.
	// Default: "2006-01-02 15:04:05-07:00"
	TimeFormat string `yaml:"time_format" mapstructure:"time_format"`

	// LegacySkipLast leaves the final merged record out of the document, as
	// older versions of the report always did.
	// Default: false
	LegacySkipLast bool `yaml:"legacy_skip_last" mapstructure:"legacy_skip_last"`

	// ShowExtent adds the bounding box of all located records to the
	// summary paragraph.
	// Default: false
	ShowExtent bool `yaml:"show_extent" mapstructure:"show_extent"`

	// Encoding of the .tex file: "latin1" or "utf8". It also selects the
	// inputenc option in the preamble.
	// Default: "latin1"
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// OutputConfig names the files written into the input directory.
type OutputConfig struct {
	MergedFile   string `yaml:"merged_file" mapstructure:"merged_file"`
	FilteredFile string `yaml:"filtered_file" mapstructure:"filtered_file"`
	DocumentFile string `yaml:"document_file" mapstructure:"document_file"`

	// Workbook, when set, also writes both tables to an .xlsx file.
	Workbook string `yaml:"workbook" mapstructure:"workbook"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// =============================================================================
// FLAG BINDINGS
// =============================================================================

// FlagKeys maps command line flag names to configuration keys. Flags that
// are not registered on the flag set passed to Load are ignored.
var FlagKeys = map[string]string{
	"dir":              "input.dir",
	"encoding":         "input.encoding",
	"title":            "report.title",
	"author":           "report.author",
	"image-dir":        "report.image_dir",
	"legacy-skip-last": "report.legacy_skip_last",
	"show-extent":      "report.show_extent",
	"workbook":         "output.workbook",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from defaults, file, environment and flags.
//
// PARAMETERS:
//   - configPath: Explicit config file. If empty, DefaultConfigFile is looked
//     up in the working directory and silently skipped when absent.
//   - flags: Optional flag set whose flags listed in FlagKeys override the
//     other sources when set on the command line.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, eris.Wrapf(err, "config: bind flag %s", name)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// setDefaults registers every default value.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.dir", d.Input.Dir)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.encoding", d.Input.Encoding)
	v.SetDefault("report.title", d.Report.Title)
	v.SetDefault("report.author", d.Report.Author)
	v.SetDefault("report.image_dir", d.Report.ImageDir)
	v.SetDefault("report.image_width", d.Report.ImageWidth)
	v.SetDefault("report.note_width", d.Report.NoteWidth)
	v.SetDefault("report.time_format", d.Report.TimeFormat)
	v.SetDefault("report.legacy_skip_last", d.Report.LegacySkipLast)
	v.SetDefault("report.show_extent", d.Report.ShowExtent)
	v.SetDefault("report.encoding", d.Report.Encoding)
	v.SetDefault("output.merged_file", d.Output.MergedFile)
	v.SetDefault("output.filtered_file", d.Output.FilteredFile)
	v.SetDefault("output.document_file", d.Output.DocumentFile)
	v.SetDefault("output.workbook", d.Output.Workbook)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input: InputConfig{
			CSVSettings: CSVSettings{
				Delimiter: ",",
				Encoding:  "utf-8",
			},
		},
		Report: ReportConfig{
			ImageWidth: "2 in",
			NoteWidth:  "6.5 in",
			TimeFormat: "2006-01-02 15:04:05.999999-07:00",
			Encoding:   "latin1",
		},
		Output: OutputConfig{
			MergedFile:   "all_notes.csv",
			FilteredFile: "all_notes_filtered.csv",
			DocumentFile: "latexoutput.tex",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the values the pipeline cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Dir) == "" {
		return eris.New("config: input directory is required")
	}

	info, err := os.Stat(c.Input.Dir)
	if err != nil {
		return eris.Wrapf(err, "config: input directory %s", c.Input.Dir)
	}
	if !info.IsDir() {
		return eris.Errorf("config: input path %s is not a directory", c.Input.Dir)
	}

	switch strings.ToLower(c.Input.Encoding) {
	case "", "utf-8", "utf8", "latin1", "iso-8859-1":
	default:
		return eris.Errorf("config: unsupported input encoding %q", c.Input.Encoding)
	}

	switch strings.ToLower(c.Report.Encoding) {
	case "", "utf8", "utf-8", "latin1", "iso-8859-1":
	default:
		return eris.Errorf("config: unsupported report encoding %q", c.Report.Encoding)
	}

	return nil
}

// =============================================================================
// STARTER FILE
// =============================================================================

// WriteDefault writes the built-in configuration as YAML to path. Existing
// files are left alone unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("config: %s already exists", path)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "config: write starter file")
	}

	return nil
}

// =============================================================================
// LOGGING
// =============================================================================

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
