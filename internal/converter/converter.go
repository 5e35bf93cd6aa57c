// =============================================================================
// Roadbook Converter - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for one workbook, from the
// dataset file to the written navigation config.
//
// CONVERSION PIPELINE:
//   1. Load the waypoint type catalog from the dataset file
//   2. Parse every sheet of the workbook into a race
//   3. Assemble the races into one document
//   4. Encode the document in the navigation config dialect
//   5. Write the output file (skipped on a dry run)
//
// Any failure stops the pipeline before step 5, so a failed run never leaves
// a partial output file behind.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/roadbook-converter/internal/config"
	"github.com/ginjaninja78/roadbook-converter/internal/dataset"
	"github.com/ginjaninja78/roadbook-converter/internal/inifile"
	"github.com/ginjaninja78/roadbook-converter/internal/types"
	"github.com/ginjaninja78/roadbook-converter/internal/xlsxparser"
	"github.com/ginjaninja78/roadbook-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single workbook.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// InputFile is the path to the workbook that was converted.
	InputFile string

	// OutputFile is the path of the generated config. It is set on a dry run
	// too, although nothing is written there.
	OutputFile string

	// Document is the assembled document, nil if the run failed before
	// assembly.
	Document *types.Document

	// Success indicates whether the conversion was successful.
	Success bool

	// Error contains the error if the conversion failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// Sheets is the number of sheets in the workbook.
	Sheets int

	// Races is the number of complete sheets turned into races.
	Races int

	// Waypoints counts the points of every day, closing duplicates included.
	Waypoints int

	// WaypointTypes is the size of the merged catalog.
	WaypointTypes int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the conversion described by a Config.
type Converter struct {
	cfg    *config.Config
	logger *zap.Logger

	// Out receives the user-facing confirmation line.
	Out io.Writer
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The validated run configuration.
//   - logger: The logger, zap.NewNop() is used when nil.
//
// RETURNS:
//   - A new Converter writing its confirmation to stdout.
func New(cfg *config.Config, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		cfg:    cfg,
		logger: logger,
		Out:    os.Stdout,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the conversion.
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{
		RunID:     uuid.NewString(),
		InputFile: c.cfg.InputFile,
	}
	logger := c.logger.With(zap.String("run", result.RunID))

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	logger.Info("converting workbook",
		zap.String("file", c.cfg.InputFile),
		zap.String("dataset", c.cfg.DatasetFile),
		zap.String("naming", string(c.cfg.Naming)))

	// =========================================================================
	// STEP 1: LOAD DATASET
	// =========================================================================

	catalog, err := c.loadCatalog(logger)
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 2: PARSE WORKBOOK
	// =========================================================================

	book, err := xlsxparser.ParseWorkbook(c.cfg.InputFile, xlsxparser.Options{
		Catalog:  catalog,
		Settings: types.Settings{MaxSpeed: c.cfg.DefaultMaxSpeed},
		Naming:   c.cfg.Naming,
		Logger:   logger,
	})
	if err != nil {
		result.Error = fmt.Errorf("failed to parse workbook: %w", err)
		return result
	}

	result.Stats.Sheets = len(book.Sheets)
	result.Stats.Races = len(book.Races)

	// =========================================================================
	// STEP 3: ASSEMBLE DOCUMENT
	// =========================================================================

	doc, err := Assemble(book.Races)
	if err != nil {
		result.Error = err
		return result
	}

	result.Document = doc
	result.Stats.WaypointTypes = len(doc.PointTypes)
	for _, day := range doc.Days {
		result.Stats.Waypoints += len(day.Points)
	}

	// =========================================================================
	// STEP 4: ENCODE AND WRITE
	// =========================================================================

	data := inifile.Encode(doc)
	result.OutputFile = filepath.Join(c.cfg.OutputDir, utils.OutputFileName(
		c.cfg.Naming == config.NamingDataset, c.cfg.InputFile, c.cfg.DatasetFile))

	if c.cfg.DryRun {
		logger.Info("dry run, output not written", zap.String("output", result.OutputFile))
		result.Success = true
		return result
	}

	if err := c.writeOutput(result.OutputFile, data); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	logger.Info("config saved",
		zap.String("output", result.OutputFile),
		zap.Int("days", len(doc.Days)),
		zap.Int("waypoints", result.Stats.Waypoints))
	fmt.Fprintf(c.Out, "Config saved to %s\n", result.OutputFile)

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadCatalog returns the waypoint types for this run. File naming may run
// without a dataset, in which case the built-in catalog is used directly.
func (c *Converter) loadCatalog(logger *zap.Logger) ([]types.WaypointType, error) {
	if c.cfg.DatasetFile == "" && c.cfg.Naming == config.NamingFile {
		logger.Debug("no dataset given, using built-in waypoint types")
		return dataset.FallbackCatalog(), nil
	}
	return dataset.Load(c.cfg.DatasetFile, logger)
}

func (c *Converter) writeOutput(path string, data []byte) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return utils.WriteReplacing(path, data)
}
