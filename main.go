// =============================================================================
// Roadbook Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   roadbook convert   - Convert a roadbook workbook into a navigation config
//   roadbook watch     - Convert again whenever the inputs change
//   roadbook version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : conversion pipeline (dataset, coordinates, workbook,
//                      assembly, config writer)
//   - pkg/           : shared file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/roadbook-converter/cmd"
)

func main() {
	cmd.Execute()
}
