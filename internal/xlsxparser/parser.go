// =============================================================================
// Roadbook Converter - XLSX Roadbook Parser
// =============================================================================
//
// This module reads the roadbook workbook. Every sheet is one race (one day of
// the event) and uses a fixed layout. Rows and columns are counted from the
// first used row and the first used column, so the table may start anywhere
// on the sheet. With the table at A1:
//
//   Row 1      : free text (ignored)
//   Row 2      : race title, e.g. "Stage 3 - Erg Chebbi"
//   Row 3      : column headers (ignored)
//   Row 4..n   : one waypoint per row
//
//   | Column A | Column B | Column C | Column D | Column E | Column F | Column G | Column H |
//   |----------|----------|----------|----------|----------|----------|----------|----------|
//   | Num      | Name     | Type     | Lat      | N/S      | Lon      | E/W      | Odo (km) |
//   | 1        | Start    | DSS      | 31°05,12 | N        | 4°01,5   | W        | 0        |
//   | 2        | Dune     | FZ50     | 31°06,00 | N        | 4°02,0   | W        | 12.345   |
//
// Cells are visited row by row, left to right. Empty cells are skipped; the
// state of the previous row carries over for any column left empty. A waypoint
// is finalized when its odometer (column H) is read, so column H must be
// present on every waypoint row.
//
// The last waypoint of every sheet is emitted twice; the navigation
// application treats the repeated point as the closing point of the day.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ginjaninja78/roadbook-converter/internal/config"
	"github.com/ginjaninja78/roadbook-converter/internal/coords"
	"github.com/ginjaninja78/roadbook-converter/internal/types"
	"github.com/ginjaninja78/roadbook-converter/pkg/utils"
)

// =============================================================================
// LAYOUT
// =============================================================================

// Row and column positions below are relative to the used range, whose top
// left corner is (first used row, first used column).
const (
	// titleRow holds the race title.
	titleRow = 1

	// lastHeaderRow is the last row skipped before waypoint data.
	lastHeaderRow = 2
)

// Waypoint columns.
const (
	colNum = iota
	colName
	colType
	colLatitude
	colLatitudeHemisphere
	colLongitude
	colLongitudeHemisphere
	colOdometer
)

const (
	typeSpeedZone  = "FZ"
	typeDangerZone = "DZ"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotNumber is returned for numeric columns holding non-numeric text.
var ErrNotNumber = errors.New("not a number")

// CellError locates a failure inside the workbook.
type CellError struct {
	Sheet string

	// Row and Col are 0-based sheet positions, A1 being (0, 0).
	Row int
	Col int

	Err error
}

func (e *CellError) Error() string {
	cell, err := excelize.CoordinatesToCellName(e.Col+1, e.Row+1)
	if err != nil {
		cell = fmt.Sprintf("R%dC%d", e.Row+1, e.Col+1)
	}
	return fmt.Sprintf("sheet %q cell %s: %v", e.Sheet, cell, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options controls how sheets are turned into races.
type Options struct {
	// Catalog is copied into every race and used to resolve speed limits.
	Catalog []types.WaypointType

	// Settings are the race-wide settings copied into every race.
	Settings types.Settings

	// EventName is stored on every race. ParseWorkbook sets it to the
	// workbook base name when empty.
	EventName string

	// Naming selects the race title fallback.
	Naming config.Naming

	Logger *zap.Logger
}

// Roadbook is the parsed workbook.
type Roadbook struct {
	// SourceFile is the path of the workbook.
	SourceFile string

	// Sheets lists every sheet in workbook order.
	Sheets []string

	// Races holds one race per complete sheet, in workbook order.
	Races []types.Race
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseWorkbook reads every sheet of the workbook at path.
//
// PARAMETERS:
//   - path: The path to the XLSX workbook.
//   - opts: Catalog, settings and naming applied to every race.
//
// RETURNS:
//   - The Roadbook with one race per complete sheet. Sheets whose last row
//     has no odometer produce no race and are logged.
//   - An error if the workbook cannot be opened or any cell is malformed.
func ParseWorkbook(path string, opts Options) (*Roadbook, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EventName == "" {
		opts.EventName = utils.FileStem(path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	book := &Roadbook{
		SourceFile: path,
		Sheets:     f.GetSheetList(),
	}

	for _, sheet := range book.Sheets {
		race, complete, err := ParseSheet(f, sheet, opts)
		if err != nil {
			return nil, err
		}
		if !complete {
			opts.Logger.Warn("sheet has no closing waypoint, skipped", zap.String("sheet", sheet))
			continue
		}

		opts.Logger.Debug("parsed sheet",
			zap.String("sheet", sheet),
			zap.String("race", race.RaceName),
			zap.Int("points", len(race.Points)))
		book.Races = append(book.Races, race)
	}

	return book, nil
}

// ParseSheet turns one sheet into a race.
//
// RETURNS:
//   - The race built from the sheet.
//   - Whether the race is complete, i.e. the last used row was finalized.
//   - A *CellError for any malformed cell.
func ParseSheet(f *excelize.File, sheet string, opts Options) (types.Race, bool, error) {
	race := types.Race{
		Code:      sheet,
		EventName: opts.EventName,
		Sets:      opts.Settings,
		Types:     slices.Clone(opts.Catalog),
		Points:    []types.Waypoint{},
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return race, false, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	used := usedRange(rows)
	builder := newRowBuilder()
	complete := false

	for r, row := range rows {
		for c, text := range row {
			if text == "" {
				continue
			}

			relRow, relCol := r-used.top, c-used.left
			if relRow == titleRow {
				race.RaceName = text
			}
			if relRow <= lastHeaderRow {
				continue
			}

			finalized, err := builder.visit(relCol, text)
			if err != nil {
				return race, false, &CellError{Sheet: sheet, Row: r, Col: c, Err: err}
			}
			if !finalized {
				continue
			}

			point := builder.waypoint(race.Types, race.Sets)
			race.Points = append(race.Points, point)
			if r == used.bottom {
				race.Points = append(race.Points, point)
				complete = true
			}
		}
	}

	if race.RaceName == "" && opts.Naming == config.NamingFile {
		race.RaceName = sheet
	}

	return race, complete, nil
}

// =============================================================================
// ROW BUILDER
// =============================================================================

// rowBuilder accumulates one waypoint from the cells of a row. Fields persist
// across rows; only the speed override is cleared, by the type column.
type rowBuilder struct {
	point types.Waypoint

	// override is the explicit speed limit of an FZ<speed> type code; zero
	// means the limit comes from the catalog.
	override uint16

	// token buffers the coordinate text until its hemisphere cell is read.
	token string
}

func newRowBuilder() *rowBuilder {
	return &rowBuilder{
		point: types.Waypoint{
			Name: "default",
			Type: "DEF",
		},
	}
}

// visit applies one cell and reports whether the row's waypoint is complete.
func (b *rowBuilder) visit(col int, text string) (bool, error) {
	switch col {
	case colNum:
		v, err := parseNumber(text)
		if err != nil {
			return false, err
		}
		num, err := ToUint16(v)
		if err != nil {
			return false, err
		}
		b.point.Num = num

	case colName:
		b.point.Name = text

	case colType:
		return false, b.setType(text)

	case colLatitude, colLongitude:
		b.token = text

	case colLatitudeHemisphere:
		lat, err := coords.Latitude(b.token, text)
		if err != nil {
			return false, err
		}
		b.point.Lat = lat

	case colLongitudeHemisphere:
		lon, err := coords.Longitude(b.token, text)
		if err != nil {
			return false, err
		}
		b.point.Lon = lon

	case colOdometer:
		km, err := parseNumber(text)
		if err != nil {
			return false, err
		}
		odo, err := MetersFromKilometers(km)
		if err != nil {
			return false, err
		}
		b.point.Odo = odo
		return true, nil
	}

	return false, nil
}

// setType decodes the type column. "FZ<speed>" sets an explicit limit,
// anything starting with "DZ" is a danger zone, other codes are verbatim.
func (b *rowBuilder) setType(code string) error {
	b.override = 0

	switch {
	case strings.HasPrefix(code, typeSpeedZone):
		b.point.Type = typeSpeedZone
		if len(code) > len(typeSpeedZone) {
			digits := strings.TrimSpace(strings.ReplaceAll(code, typeSpeedZone, ""))
			speed, err := strconv.ParseUint(digits, 10, 16)
			if err != nil {
				return fmt.Errorf("invalid speed zone %q: %w", code, err)
			}
			b.override = uint16(speed)
		}
	case strings.HasPrefix(code, typeDangerZone):
		b.point.Type = typeDangerZone
	default:
		b.point.Type = code
	}

	return nil
}

// waypoint returns the finished waypoint with its effective speed limit.
func (b *rowBuilder) waypoint(catalog []types.WaypointType, sets types.Settings) types.Waypoint {
	if b.override != 0 {
		b.point.MaxSpeed = b.override
	} else {
		b.point.MaxSpeed = resolveMaxSpeed(b.point.Type, catalog, sets)
	}
	return b.point
}

// resolveMaxSpeed returns the speed of the last catalog entry with the given
// caption, or the race default.
func resolveMaxSpeed(caption string, catalog []types.WaypointType, sets types.Settings) uint16 {
	speed := sets.MaxSpeed
	for _, t := range catalog {
		if t.Caption == caption {
			speed = t.MaxSpeed
		}
	}
	return speed
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cellRange is the bounding box of the non-empty cells, in absolute 0-based
// row and column indices.
type cellRange struct {
	top, left, bottom int
}

// usedRange returns the bounding box of the non-empty cells. For an empty
// sheet bottom is -1, so no row is ever the last one.
func usedRange(rows [][]string) cellRange {
	used := cellRange{top: -1, left: -1, bottom: -1}
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			if used.top < 0 {
				used.top = r
			}
			if used.left < 0 || c < used.left {
				used.left = c
			}
			used.bottom = r
		}
	}
	return used
}

func parseNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, text)
	}
	return v, nil
}
