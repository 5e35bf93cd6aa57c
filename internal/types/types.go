// =============================================================================
// Roadbook Converter - Shared Types
// =============================================================================
//
// This package contains the data model shared across the pipeline to avoid
// import cycles. Types defined here are used by:
//   - dataset     (WaypointType catalog)
//   - xlsxparser  (Waypoint, Race)
//   - converter   (Document assembly)
//   - inifile     (Document encoding)
//
// =============================================================================

package types

// =============================================================================
// WAYPOINT TYPES
// =============================================================================

// WaypointType is a named category of race point carrying default display and
// behavior attributes. Its identity is the caption, but equality is structural
// over all fields: two types with the same caption and different attributes
// are distinct catalog entries.
type WaypointType struct {
	// Caption is the type name, e.g. "WPV", "DSS", "FZ".
	Caption string `yaml:"caption"`

	// DefaultRad is the default validation radius in meters.
	DefaultRad uint16 `yaml:"default_rad"`

	// IsOpen marks types whose points are open (visible before validation).
	IsOpen bool `yaml:"is_open"`

	// Ghost marks types whose points are hidden from the competitor.
	Ghost bool `yaml:"ghost"`

	// InGame marks types whose points are shown in the navigation screen.
	InGame bool `yaml:"in_game"`

	// ArrowThreshold is the distance in meters at which the direction arrow
	// starts to display.
	ArrowThreshold uint16 `yaml:"arrow_threshold"`

	// MaxSpeed is the speed limit in km/h applied to points of this type.
	MaxSpeed uint16 `yaml:"max_speed"`
}

// =============================================================================
// WAYPOINTS AND RACES
// =============================================================================

// Waypoint is a single row of a race sheet.
type Waypoint struct {
	Num  uint16 `yaml:"num"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Odo is the cumulative distance in meters.
	Odo uint32 `yaml:"odo"`

	Lat float32 `yaml:"lat"`
	Lon float32 `yaml:"lon"`

	// MaxSpeed is the effective speed limit, either explicit (FZ<speed>) or
	// resolved from the waypoint type catalog.
	MaxSpeed uint16 `yaml:"max_speed"`
}

// Settings holds race-wide parameters.
type Settings struct {
	// Total is a placeholder kept at zero; the consuming application fills it.
	Total uint16 `yaml:"total"`

	// MaxSpeed is the fallback speed limit for waypoints whose type is not in
	// the catalog.
	MaxSpeed uint16 `yaml:"max_speed"`
}

// Race is the content of one workbook sheet.
type Race struct {
	Code      string         `yaml:"code"`
	EventName string         `yaml:"event_name"`
	RaceName  string         `yaml:"race_name"`
	Sets      Settings       `yaml:"sets"`
	Types     []WaypointType `yaml:"types"`
	Points    []Waypoint     `yaml:"points"`
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the assembled configuration written to the output file.
type Document struct {
	Days       []Day          `yaml:"days"`
	Races      RaceParams     `yaml:"races"`
	PointTypes []WaypointType `yaml:"point_types"`
}

// Day is one race stage in the output document.
type Day struct {
	Code   string     `yaml:"code"`
	Points []Waypoint `yaml:"points"`
}

// RaceParams carries the event identity and settings shared by all days.
type RaceParams struct {
	Info Info     `yaml:"info"`
	Sets Settings `yaml:"sets"`
}

// Info identifies the event.
type Info struct {
	EventName string `yaml:"event_name"`
	RaceName  string `yaml:"race_name"`
}
