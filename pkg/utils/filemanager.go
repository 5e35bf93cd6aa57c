// =============================================================================
// Roadbook Converter - File Management Utilities
// =============================================================================
//
// This package handles the output side of the filesystem:
//   - Deriving the output file name from the input names
//   - Creating the output directory
//   - Replacing the output file (delete, then create and write)
//
// OUTPUT NAMING:
//   dataset naming : config_<dataset>_<workbook>.ini
//   file naming    : config_<workbook>.ini
//
//   <dataset> is the dataset file name up to its first dot ("race.v2.set"
//   gives "race"); <workbook> is the workbook file name without its last
//   extension ("rally.2024.xlsx" gives "rally.2024").
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// NAMING
// =============================================================================

const (
	outputPrefix    = "config_"
	outputExtension = ".ini"
)

// FileStem returns the base name of path without its last extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// DatasetStem returns the dataset file name up to its first dot.
func DatasetStem(path string) string {
	base := filepath.Base(path)
	stem, _, _ := strings.Cut(base, ".")
	return stem
}

// OutputFileName builds the output file name.
//
// PARAMETERS:
//   - withDataset: Whether the dataset name takes part in the file name.
//   - inputPath: The workbook path.
//   - datasetPath: The dataset path (ignored when withDataset is false).
//
// RETURNS:
//   - The file name, without directory.
func OutputFileName(withDataset bool, inputPath, datasetPath string) string {
	if withDataset {
		return fmt.Sprintf("%s%s_%s%s", outputPrefix, DatasetStem(datasetPath), FileStem(inputPath), outputExtension)
	}
	return fmt.Sprintf("%s%s%s", outputPrefix, FileStem(inputPath), outputExtension)
}

// =============================================================================
// WRITING
// =============================================================================

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteReplacing removes any existing file at path, then creates it and
// writes data. The sequence is not atomic: a crash between the steps leaves
// no file or a truncated one.
func WriteReplacing(path string, data []byte) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove existing file: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
