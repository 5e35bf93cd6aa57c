// =============================================================================
// Roadbook Converter - Configuration Module
// =============================================================================
//
// This module holds the settings of a single conversion run. Values come from
// command line flags, a YAML config file or ROADBOOK_* environment variables;
// viper merges the three sources in the cmd package and FromViper builds the
// Config from the result.
//
// EXAMPLE CONFIG FILE (.roadbook.yml):
//   file: ./rally.xlsx
//   dataset: ./race.set
//   naming: dataset
//   output: ./output
//   default-max-speed: 110
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// =============================================================================
// NAMING STRATEGY
// =============================================================================

// Naming selects how races and the output file are named. The two values
// correspond to the two deployments of the converter.
type Naming string

const (
	// NamingDataset requires a dataset file and names the output
	// config_<dataset>_<workbook>.ini.
	NamingDataset Naming = "dataset"

	// NamingFile works from the workbook alone, names the output
	// config_<workbook>.ini and falls back to the sheet name when a sheet has
	// no title row.
	NamingFile Naming = "file"
)

// ParseNaming validates a naming strategy name.
func ParseNaming(s string) (Naming, error) {
	switch Naming(s) {
	case NamingDataset, NamingFile:
		return Naming(s), nil
	default:
		return "", fmt.Errorf("unknown naming strategy %q (want %q or %q)", s, NamingDataset, NamingFile)
	}
}

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// StandardMaxSpeed replaces an unset (zero) DefaultMaxSpeed.
const StandardMaxSpeed uint16 = 110

// Config holds the settings of one conversion.
type Config struct {
	// InputFile is the workbook to convert.
	InputFile string `mapstructure:"file"`

	// DatasetFile is the waypoint type dataset. Optional with NamingFile.
	DatasetFile string `mapstructure:"dataset"`

	// Naming is the race and output naming strategy.
	// Default: "dataset"
	Naming Naming `mapstructure:"naming"`

	// OutputDir receives the generated file.
	// Default: "<cwd>/output"
	OutputDir string `mapstructure:"output"`

	// DefaultMaxSpeed is the race-wide speed limit used for waypoints whose
	// type is missing from the catalog. Zero means unset.
	// Default: StandardMaxSpeed
	DefaultMaxSpeed uint16 `mapstructure:"default-max-speed"`

	// DryRun assembles the document without writing the output file.
	DryRun bool `mapstructure:"dry-run"`
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrMissingInput   = errors.New("input workbook is required")
	ErrMissingDataset = errors.New("dataset file is required with dataset naming")
	ErrMissingOutput  = errors.New("output directory is required")
)

// =============================================================================
// LOADING
// =============================================================================

// FromViper builds a Config from the merged flag, file and env values.
//
// RETURNS:
//   - The validated Config with defaults applied.
//   - An error listing every validation problem.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults sets default values for any unset option.
func (c *Config) ApplyDefaults() error {
	if c.Naming == "" {
		c.Naming = NamingDataset
	}
	if c.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		c.OutputDir = filepath.Join(wd, "output")
	}
	if c.DefaultMaxSpeed == 0 {
		c.DefaultMaxSpeed = StandardMaxSpeed
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.InputFile == "" {
		result = multierror.Append(result, ErrMissingInput)
	}

	naming, err := ParseNaming(string(c.Naming))
	if err != nil {
		result = multierror.Append(result, err)
	}
	if naming == NamingDataset && c.DatasetFile == "" {
		result = multierror.Append(result, ErrMissingDataset)
	}

	if c.OutputDir == "" {
		result = multierror.Append(result, ErrMissingOutput)
	}

	return result.ErrorOrNil()
}
