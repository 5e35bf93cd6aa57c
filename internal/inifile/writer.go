// =============================================================================
// Roadbook Converter - Navigation Config Writer
// =============================================================================
//
// This module writes the assembled document in the dialect read by the
// navigation application. The dialect looks like TOML with compact "key=value"
// pairs and a fixed, partly flattened table layout:
//
//   [[days]]                   <!-- one per race, in sheet order -->
//   code="Day1"
//
//   [[races.points]]           <!-- the points of the preceding [[days]] -->
//   num=1
//   name="Start"
//   type="DSS"
//   odo=0
//   lat=45.508335
//   lon=12.25
//   max_speed=140
//
//   [[RACE_PARAMS]]            <!-- event identity of the first race -->
//   [INFO]
//   event_name="rally"
//   race_name="Stage 1"
//
//   [races.sets]
//   total=0
//   max_speed=110
//
//   [[races.types]]            <!-- merged waypoint type catalog -->
//   caption="ASS"
//   default_rad=90
//   is_open=false
//   ghost=false
//   in_game=true
//   arrow_threshold=1000
//   max_speed=90
//
// Points are attached to their day by position only: the application reads
// every [[races.points]] table up to the next [[days]] header.
//
// An empty type catalog is written as
//
//   [point_types]
//   types=[]
//
// =============================================================================

package inifile

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

// =============================================================================
// TABLE HEADERS
// =============================================================================

const (
	headerDay        = "[[days]]"
	headerPoint      = "[[races.points]]"
	headerRaceParams = "[[RACE_PARAMS]]"
	headerInfo       = "[INFO]"
	headerSettings   = "[races.sets]"
	headerType       = "[[races.types]]"
	headerNoTypes    = "[point_types]"
)

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders the document in the navigation config dialect.
func Encode(doc *types.Document) []byte {
	w := &writer{}

	for _, day := range doc.Days {
		w.table(headerDay)
		w.str("code", day.Code)

		for _, p := range day.Points {
			w.table(headerPoint)
			w.uint("num", uint64(p.Num))
			w.str("name", p.Name)
			w.str("type", p.Type)
			w.uint("odo", uint64(p.Odo))
			w.float("lat", p.Lat)
			w.float("lon", p.Lon)
			w.uint("max_speed", uint64(p.MaxSpeed))
		}
	}

	// RACE_PARAMS and INFO form a single block with no blank line between.
	w.table(headerRaceParams)
	w.line(headerInfo)
	w.str("event_name", doc.Races.Info.EventName)
	w.str("race_name", doc.Races.Info.RaceName)

	w.table(headerSettings)
	w.uint("total", uint64(doc.Races.Sets.Total))
	w.uint("max_speed", uint64(doc.Races.Sets.MaxSpeed))

	if len(doc.PointTypes) == 0 {
		w.table(headerNoTypes)
		w.key("types")
		w.line("[]")
	}

	for _, pt := range doc.PointTypes {
		w.table(headerType)
		w.str("caption", pt.Caption)
		w.uint("default_rad", uint64(pt.DefaultRad))
		w.bool("is_open", pt.IsOpen)
		w.bool("ghost", pt.Ghost)
		w.bool("in_game", pt.InGame)
		w.uint("arrow_threshold", uint64(pt.ArrowThreshold))
		w.uint("max_speed", uint64(pt.MaxSpeed))
	}

	return w.buf.Bytes()
}

// =============================================================================
// WRITER
// =============================================================================

type writer struct {
	buf bytes.Buffer
}

// table starts a table, separated from the previous one by a blank line.
func (w *writer) table(header string) {
	if w.buf.Len() > 0 {
		w.buf.WriteByte('\n')
	}
	w.line(header)
}

func (w *writer) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) key(k string) {
	w.buf.WriteString(k)
	w.buf.WriteByte('=')
}

func (w *writer) str(k, v string) {
	w.key(k)
	w.line(QuoteString(v))
}

func (w *writer) uint(k string, v uint64) {
	w.key(k)
	w.line(strconv.FormatUint(v, 10))
}

func (w *writer) bool(k string, v bool) {
	w.key(k)
	w.line(strconv.FormatBool(v))
}

func (w *writer) float(k string, v float32) {
	w.key(k)
	w.line(FormatFloat(v))
}

// =============================================================================
// VALUE FORMATTING
// =============================================================================

// QuoteString returns s as a double-quoted basic string. Quotes, backslashes
// and control characters are escaped; everything else is written as is.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				b.WriteString(strings.Repeat("0", 4-len(hex)))
				b.WriteString(strings.ToUpper(hex))
				continue
			}
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')
	return b.String()
}

// FormatFloat writes v with the fewest digits that round-trip as a float32
// and always with a fractional part, so 12 is written as "12.0".
func FormatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
