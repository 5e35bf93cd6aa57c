package dataset

import "github.com/ginjaninja78/roadbook-converter/internal/types"

// fallbackCaptions lists the built-in waypoint types in catalog order.
var fallbackCaptions = []string{
	"WPV", "WPM", "WPS", "WPE", "DSS", "FZ", "DZ", "WPC", "ASS", "default",
}

// FallbackCatalog returns the built-in catalog used when no dataset file is
// available. Every type starts from the in-game defaults and applies its own
// overrides; DZ and default keep the defaults unchanged.
func FallbackCatalog() []types.WaypointType {
	catalog := make([]types.WaypointType, 0, len(fallbackCaptions))

	for _, caption := range fallbackCaptions {
		t := types.WaypointType{
			Caption:        caption,
			DefaultRad:     defaultRad,
			InGame:         true,
			ArrowThreshold: defaultArrowThreshold,
			MaxSpeed:       defaultMaxSpeed,
		}

		switch caption {
		case "WPV", "DSS":
			t.DefaultRad = 200
			t.IsOpen = true
			t.InGame = false
		case "WPM":
			t.DefaultRad = 50
			t.MaxSpeed = 90
		case "WPS":
			t.DefaultRad = 50
			t.MaxSpeed = 90
			t.ArrowThreshold = 1000
		case "WPE":
			t.MaxSpeed = 90
			t.ArrowThreshold = 5000
		case "ASS":
			t.MaxSpeed = 90
			t.ArrowThreshold = 1000
		case "FZ":
			t.IsOpen = true
			t.MaxSpeed = 40
		case "WPC":
			t.IsOpen = true
			t.MaxSpeed = 90
			t.Ghost = true
		}

		catalog = append(catalog, t)
	}

	return catalog
}
