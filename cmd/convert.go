// =============================================================================
// Roadbook Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts one roadbook
// workbook into a navigation config.
//
// COMMAND USAGE:
//   roadbook convert --file <xlsx> [flags]
//
// FLAGS:
//   --file              : The roadbook workbook (required)
//   --dataset           : The waypoint type dataset (required with dataset naming)
//   --naming            : "dataset" or "file", selects race and output naming
//   --output            : Output directory (default <cwd>/output)
//   --default-max-speed : Speed limit for waypoint types missing from the dataset,
//                         0 selects the standard limit of 110
//   --dry-run           : Print the assembled document as YAML, write nothing
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/roadbook-converter/internal/config"
	"github.com/ginjaninja78/roadbook-converter/internal/converter"
	"github.com/ginjaninja78/roadbook-converter/internal/log"
	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a roadbook workbook into a navigation config",
		Long: `The convert command reads every sheet of the workbook as one race day,
applies the waypoint type defaults of the dataset file and writes a single
navigation config named config_<dataset>_<workbook>.ini (dataset naming) or
config_<workbook>.ini (file naming) to the output directory.

Nothing is written when any cell is malformed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runConvert(cfg, log.Logger, cmd.OutOrStdout())
		},
	}

	addConversionFlags(cmd)
	return cmd
}

// addConversionFlags registers the flags shared by convert and watch.
func addConversionFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Path to the roadbook workbook (.xlsx)")
	cmd.Flags().String("dataset", "", "Path to the waypoint type dataset file")
	cmd.Flags().String("naming", string(config.NamingDataset),
		"Naming strategy for races and the output file (dataset, file)")
	cmd.Flags().String("output", "", "Output directory (default is <cwd>/output)")
	cmd.Flags().Uint16("default-max-speed", config.StandardMaxSpeed,
		fmt.Sprintf("Speed limit for waypoints whose type is not in the dataset (0 selects %d)",
			config.StandardMaxSpeed))
	cmd.Flags().Bool("dry-run", false,
		"Print the assembled document as YAML without writing the output file")
}

// loadConfig merges flags, config file and environment into a Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.GetViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return config.FromViper(v)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert runs one conversion and reports its outcome on out.
func runConvert(cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	conv := converter.New(cfg, logger)
	conv.Out = out

	result := conv.Run()
	if result.Error != nil {
		logger.Error("conversion failed",
			zap.String("run", result.RunID),
			zap.String("file", result.InputFile),
			zap.Error(result.Error))
		return result.Error
	}

	logger.Debug("conversion finished",
		zap.String("run", result.RunID),
		zap.Int("sheets", result.Stats.Sheets),
		zap.Int("races", result.Stats.Races),
		zap.Int("waypoints", result.Stats.Waypoints),
		zap.Int("waypoint_types", result.Stats.WaypointTypes),
		zap.Duration("elapsed", result.Stats.ProcessingTime))

	if cfg.DryRun {
		return dumpDocument(out, result.Document)
	}
	return nil
}

// dumpDocument writes doc as YAML.
func dumpDocument(out io.Writer, doc *types.Document) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return enc.Close()
}
