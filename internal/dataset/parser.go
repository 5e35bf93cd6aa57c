// =============================================================================
// Roadbook Converter - Dataset Parser
// =============================================================================
//
// This module reads the dataset file that defines default attributes for each
// waypoint type. The format is line oriented and order sensitive:
//
//   off_race=110
//   on_race=80
//   [point_types.WPV]
//   default_rad=200
//   is_open=true
//   -
//   [point_types.FZ]
//   max_speed=40
//   -
//
// A "[point_types.<NAME>]" line opens a section, key=value lines fill it and a
// line starting with "-" closes it. Lines matching none of the known prefixes
// are ignored.
//
// When the dataset file cannot be opened, a built-in catalog is used instead
// (see fallback.go). That is not an error.
//
// =============================================================================

package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// Initial candidate speeds used by section headers until the file
	// overrides them with off_race= / on_race= lines.
	defaultOffRaceSpeed uint16 = 110
	defaultOnRaceSpeed  uint16 = 80

	// Field values a section starts from after a "-" terminator.
	defaultRad            uint16 = 90
	defaultArrowThreshold uint16 = 800
	defaultMaxSpeed       uint16 = 140

	sectionPrefix = "[point_types."
)

// offRaceTypes are the section names that take the off-race speed.
var offRaceTypes = map[string]bool{
	"WPV": true,
	"DSS": true,
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrMissingValue is returned for a recognized key line without "=".
var ErrMissingValue = errors.New("missing value")

// ParseError describes a malformed line of the dataset file.
type ParseError struct {
	// Line is the 1-based line number.
	Line int

	// Key is the recognized key, e.g. "default_rad".
	Key string

	// Value is the raw value text.
	Value string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset line %d: invalid %s value %q: %v", e.Line, e.Key, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the waypoint type catalog from the dataset file at path.
//
// PARAMETERS:
//   - path: The dataset file path. May be empty.
//   - logger: Receives the diagnostic when the fallback catalog is used.
//
// RETURNS:
//   - The parsed catalog, or FallbackCatalog() when the file cannot be opened.
//   - A *ParseError when the file is readable but malformed.
func Load(path string, logger *zap.Logger) ([]types.WaypointType, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.Warn("could not open dataset file, using built-in waypoint types",
			zap.String("dataset", path), zap.Error(err))
		return FallbackCatalog(), nil
	}
	defer file.Close()

	catalog, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	logger.Debug("loaded dataset", zap.String("dataset", path), zap.Int("types", len(catalog)))
	return catalog, nil
}

// =============================================================================
// PARSING
// =============================================================================

// sectionState accumulates the fields of the section being read.
type sectionState struct {
	name           string
	defaultRad     uint16
	isOpen         bool
	inGame         bool
	arrowThreshold uint16
	maxSpeed       uint16
}

func newSectionState() sectionState {
	return sectionState{
		defaultRad:     defaultRad,
		arrowThreshold: defaultArrowThreshold,
		maxSpeed:       defaultMaxSpeed,
	}
}

func (s sectionState) waypointType() types.WaypointType {
	return types.WaypointType{
		Caption:        s.name,
		DefaultRad:     s.defaultRad,
		IsOpen:         s.isOpen,
		InGame:         s.inGame,
		ArrowThreshold: s.arrowThreshold,
		MaxSpeed:       s.maxSpeed,
	}
}

// Parse reads a dataset from r and returns the waypoint types in file order.
// A malformed numeric or boolean value aborts parsing with a *ParseError.
func Parse(r io.Reader) ([]types.WaypointType, error) {
	scanner := bufio.NewScanner(r)

	offRace := defaultOffRaceSpeed
	onRace := defaultOnRaceSpeed
	state := newSectionState()
	catalog := []types.WaypointType{}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		var err error
		switch {
		case strings.HasPrefix(line, "off_race"):
			offRace, err = parseUint16(line, lineNumber, "off_race")
		case strings.HasPrefix(line, "on_race"):
			onRace, err = parseUint16(line, lineNumber, "on_race")
		case strings.HasPrefix(line, sectionPrefix):
			state.name = sectionName(line)
			if offRaceTypes[state.name] {
				state.maxSpeed = offRace
			} else {
				state.maxSpeed = onRace
			}
		case strings.HasPrefix(line, "default_rad"):
			state.defaultRad, err = parseUint16(line, lineNumber, "default_rad")
		case strings.HasPrefix(line, "is_open"):
			state.isOpen, err = parseBool(line, lineNumber, "is_open")
		case strings.HasPrefix(line, "in_game"):
			state.inGame, err = parseBool(line, lineNumber, "in_game")
		case strings.HasPrefix(line, "arrow_threshold"):
			state.arrowThreshold, err = parseUint16(line, lineNumber, "arrow_threshold")
		case strings.HasPrefix(line, "max_speed"):
			state.maxSpeed, err = parseUint16(line, lineNumber, "max_speed")
		case strings.HasPrefix(line, "-"):
			catalog = append(catalog, state.waypointType())
			state = newSectionState()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	return catalog, nil
}

// sectionName extracts NAME from "[point_types.NAME]".
func sectionName(line string) string {
	parts := strings.Split(line, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ReplaceAll(parts[1], "]", "")
}

// =============================================================================
// VALUE HELPERS
// =============================================================================

// value returns the text between the first and the second "=" of a key line,
// as is. "max_speed=90=1" yields "90"; "default_rad= 90" yields " 90", which
// then fails to parse.
func value(line string, lineNumber int, key string) (string, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 2 {
		return "", &ParseError{Line: lineNumber, Key: key, Value: line, Err: ErrMissingValue}
	}
	return parts[1], nil
}

func parseUint16(line string, lineNumber int, key string) (uint16, error) {
	raw, err := value(line, lineNumber, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, &ParseError{Line: lineNumber, Key: key, Value: raw, Err: err}
	}
	return uint16(n), nil
}

// parseBool accepts only the literals "true" and "false".
func parseBool(line string, lineNumber int, key string) (bool, error) {
	raw, err := value(line, lineNumber, key)
	if err != nil {
		return false, err
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ParseError{Line: lineNumber, Key: key, Value: raw, Err: strconv.ErrSyntax}
	}
}
