// =============================================================================
// Roadbook Converter - Document Assembler
// =============================================================================
//
// This module merges the races parsed from every sheet into the single
// document written to the output file:
//   - one Day per race, in sheet order
//   - the race parameters of the first race
//   - the union of all waypoint type catalogs, sorted by caption
//
// All sheets of a workbook are expected to belong to one event; the event and
// race names of later sheets do not appear in the document.
//
// =============================================================================

package converter

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

// ErrNoRaces is returned when no sheet produced a complete race.
var ErrNoRaces = errors.New("no races found in workbook")

// Assemble builds the output document from the parsed races.
//
// PARAMETERS:
//   - races: The races in sheet order.
//
// RETURNS:
//   - The assembled document.
//   - ErrNoRaces when races is empty.
func Assemble(races []types.Race) (*types.Document, error) {
	if len(races) == 0 {
		return nil, ErrNoRaces
	}

	days := lo.Map(races, func(race types.Race, _ int) types.Day {
		return types.Day{
			Code:   race.Code,
			Points: race.Points,
		}
	})

	first := races[0]
	params := types.RaceParams{
		Info: types.Info{
			EventName: first.EventName,
			RaceName:  first.RaceName,
		},
		Sets: first.Sets,
	}

	return &types.Document{
		Days:       days,
		Races:      params,
		PointTypes: mergeCatalogs(races),
	}, nil
}

// mergeCatalogs returns the structurally distinct waypoint types of all races
// sorted by caption. Entries sharing a caption keep their first-seen order.
func mergeCatalogs(races []types.Race) []types.WaypointType {
	all := lo.FlatMap(races, func(race types.Race, _ int) []types.WaypointType {
		return race.Types
	})

	merged := lo.Uniq(all)
	slices.SortStableFunc(merged, func(a, b types.WaypointType) int {
		return strings.Compare(a.Caption, b.Caption)
	})

	return merged
}
