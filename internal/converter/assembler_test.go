package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

func TestAssembleNoRaces(t *testing.T) {
	_, err := Assemble(nil)
	assert.ErrorIs(t, err, ErrNoRaces)
}

func TestAssemble(t *testing.T) {
	wpv := types.WaypointType{Caption: "WPV", DefaultRad: 200, IsOpen: true, ArrowThreshold: 800, MaxSpeed: 110}
	dss := types.WaypointType{Caption: "DSS", DefaultRad: 200, IsOpen: true, ArrowThreshold: 800, MaxSpeed: 110}
	ass := types.WaypointType{Caption: "ASS", DefaultRad: 90, InGame: true, ArrowThreshold: 1000, MaxSpeed: 90}
	slowWPV := wpv
	slowWPV.MaxSpeed = 60

	races := []types.Race{
		{
			Code:      "Day1",
			EventName: "rally",
			RaceName:  "Stage 1",
			Sets:      types.Settings{MaxSpeed: 110},
			Types:     []types.WaypointType{wpv, dss},
			Points:    []types.Waypoint{{Num: 1, Name: "Start"}, {Num: 1, Name: "Start"}},
		},
		{
			Code:      "Day2",
			EventName: "other",
			RaceName:  "Stage 2",
			Sets:      types.Settings{Total: 3, MaxSpeed: 90},
			Types:     []types.WaypointType{ass, wpv, slowWPV},
			Points:    []types.Waypoint{{Num: 7, Name: "Camp"}},
		},
	}

	doc, err := Assemble(races)
	require.NoError(t, err)

	require.Len(t, doc.Days, 2)
	assert.Equal(t, types.Day{Code: "Day1", Points: races[0].Points}, doc.Days[0])
	assert.Equal(t, types.Day{Code: "Day2", Points: races[1].Points}, doc.Days[1])

	assert.Equal(t, types.RaceParams{
		Info: types.Info{EventName: "rally", RaceName: "Stage 1"},
		Sets: types.Settings{MaxSpeed: 110},
	}, doc.Races)

	assert.Equal(t, []types.WaypointType{ass, dss, wpv, slowWPV}, doc.PointTypes)
}

func TestAssembleSortsByteWise(t *testing.T) {
	races := []types.Race{{
		Code: "Day1",
		Types: []types.WaypointType{
			{Caption: "default"},
			{Caption: "WPC"},
			{Caption: "ASS"},
			{Caption: "DZ"},
		},
	}}

	doc, err := Assemble(races)
	require.NoError(t, err)

	captions := make([]string, 0, len(doc.PointTypes))
	for _, pt := range doc.PointTypes {
		captions = append(captions, pt.Caption)
	}
	assert.Equal(t, []string{"ASS", "DZ", "WPC", "default"}, captions)
}
