// =============================================================================
// FieldMove Notes Merger - File Manager Utility
// =============================================================================
//
// This module handles file system access for one FieldMove export folder:
//   - Resolving the four source files inside the folder
//   - Failing early when any of them is missing
//   - Writing the output files next to the sources
//
// Writes are not transactional. A failure partway through leaves a partial
// file behind, which is acceptable for this single-user batch tool.
//
// =============================================================================

package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/fieldmove-notes/internal/record"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for one export folder.
type FileManager struct {
	// Dir is the .fm folder exported by FieldMove Clino.
	Dir string
}

// NewFileManager creates a FileManager for dir.
func NewFileManager(dir string) *FileManager {
	return &FileManager{Dir: dir}
}

// ErrMissingSource is returned when a source file does not exist.
var ErrMissingSource = eris.New("utils: missing source file")

// =============================================================================
// SOURCES
// =============================================================================

// SourcePath returns the path of a category's source file.
func (fm *FileManager) SourcePath(cat record.Category) string {
	return filepath.Join(fm.Dir, cat.FileName())
}

// SourcePaths returns every source path in merge order.
func (fm *FileManager) SourcePaths() []string {
	paths := make([]string, 0, len(record.Categories))
	for _, cat := range record.Categories {
		paths = append(paths, fm.SourcePath(cat))
	}
	return paths
}

// CheckSources verifies that all four source files exist.
//
// RETURNS:
//   - nil if every file exists.
//   - An error wrapping ErrMissingSource that names every missing file.
func (fm *FileManager) CheckSources() error {
	var missing []string
	for _, cat := range record.Categories {
		if !FileExists(fm.SourcePath(cat)) {
			missing = append(missing, cat.FileName())
		}
	}

	if len(missing) > 0 {
		return eris.Wrapf(ErrMissingSource, "%s in %s", strings.Join(missing, ", "), fm.Dir)
	}

	return nil
}

// IsSource reports whether path names one of the four source files.
func (fm *FileManager) IsSource(path string) bool {
	clean := filepath.Clean(path)
	for _, p := range fm.SourcePaths() {
		if filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUTS
// =============================================================================

// OutputPath returns the path of an output file inside the folder.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.Dir, name)
}

// WriteOutput writes data to an output file and returns its path.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	path := fm.OutputPath(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "utils: write %s", path)
	}
	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
