package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

func TestLoadMissingFileUsesFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	for _, path := range []string{
		filepath.Join(t.TempDir(), "missing.txt"),
		"",
		"/definitely/not/here/dataset.ini",
	} {
		catalog, err := Load(path, logger)
		require.NoError(t, err)
		assert.Equal(t, FallbackCatalog(), catalog)
	}

	assert.Equal(t, 3, logs.FilterMessage("could not open dataset file, using built-in waypoint types").Len())
}

func TestFallbackCatalog(t *testing.T) {
	catalog := FallbackCatalog()
	require.Len(t, catalog, 10)

	expected := []types.WaypointType{
		{Caption: "WPV", DefaultRad: 200, IsOpen: true, InGame: false, ArrowThreshold: 800, MaxSpeed: 140},
		{Caption: "WPM", DefaultRad: 50, InGame: true, ArrowThreshold: 800, MaxSpeed: 90},
		{Caption: "WPS", DefaultRad: 50, InGame: true, ArrowThreshold: 1000, MaxSpeed: 90},
		{Caption: "WPE", DefaultRad: 90, InGame: true, ArrowThreshold: 5000, MaxSpeed: 90},
		{Caption: "DSS", DefaultRad: 200, IsOpen: true, InGame: false, ArrowThreshold: 800, MaxSpeed: 140},
		{Caption: "FZ", DefaultRad: 90, IsOpen: true, InGame: true, ArrowThreshold: 800, MaxSpeed: 40},
		{Caption: "DZ", DefaultRad: 90, InGame: true, ArrowThreshold: 800, MaxSpeed: 140},
		{Caption: "WPC", DefaultRad: 90, IsOpen: true, InGame: true, ArrowThreshold: 800, MaxSpeed: 90, Ghost: true},
		{Caption: "ASS", DefaultRad: 90, InGame: true, ArrowThreshold: 1000, MaxSpeed: 90},
		{Caption: "default", DefaultRad: 90, InGame: true, ArrowThreshold: 800, MaxSpeed: 140},
	}
	assert.Equal(t, expected, catalog)
}

func TestParse(t *testing.T) {
	t.Run("off race speed applies to WPV", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("off_race=120\n[point_types.WPV]\n-\n"))
		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, "WPV", catalog[0].Caption)
		assert.Equal(t, uint16(120), catalog[0].MaxSpeed)
	})

	t.Run("on race default applies to other sections", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("[point_types.FOO]\n-\n"))
		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, types.WaypointType{
			Caption:        "FOO",
			DefaultRad:     90,
			ArrowThreshold: 800,
			MaxSpeed:       80,
		}, catalog[0])
	})

	t.Run("explicit max_speed overrides section speed", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("on_race=70\n[point_types.FZ]\nmax_speed=40\n-\n[point_types.WPM]\n-\n"))
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, uint16(40), catalog[0].MaxSpeed)
		assert.Equal(t, uint16(70), catalog[1].MaxSpeed)
	})

	t.Run("fields reset after terminator", func(t *testing.T) {
		input := strings.Join([]string{
			"off_race=100",
			"on_race=60",
			"[point_types.DSS]",
			"default_rad=200",
			"is_open=true",
			"in_game=true",
			"arrow_threshold=1500",
			"----",
			"[point_types.ASS]",
			"-",
		}, "\r\n")

		catalog, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, types.WaypointType{
			Caption:        "DSS",
			DefaultRad:     200,
			IsOpen:         true,
			InGame:         true,
			ArrowThreshold: 1500,
			MaxSpeed:       100,
		}, catalog[0])
		assert.Equal(t, types.WaypointType{
			Caption:        "ASS",
			DefaultRad:     90,
			ArrowThreshold: 800,
			MaxSpeed:       60,
		}, catalog[1])
	})

	t.Run("unterminated section is dropped", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("[point_types.WPV]\ndefault_rad=10\n"))
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})

	t.Run("value ends at the second equals sign", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("[point_types.WPM]\nmax_speed=90=1\nis_open=true=yes\n-\n"))
		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, uint16(90), catalog[0].MaxSpeed)
		assert.True(t, catalog[0].IsOpen)
	})

	t.Run("unknown lines are ignored", func(t *testing.T) {
		catalog, err := Parse(strings.NewReader("# comment\n\nfoo=bar\n[point_types.WPE]\n-\n"))
		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, "WPE", catalog[0].Caption)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		line  int
	}{
		{"non numeric radius", "[point_types.WPV]\ndefault_rad=abc\n-\n", "default_rad", 2},
		{"negative speed", "off_race=-5\n", "off_race", 1},
		{"overflowing threshold", "arrow_threshold=70000\n", "arrow_threshold", 1},
		{"bad boolean", "is_open=yes\n", "is_open", 1},
		{"numeric boolean", "in_game=1\n", "in_game", 1},
		{"missing equals", "max_speed 90\n", "max_speed", 1},
		{"space before value", "[point_types.WPV]\ndefault_rad= 90\n-\n", "default_rad", 2},
		{"space after value", "max_speed=90 \n", "max_speed", 1},
		{"padded boolean", "is_open= true\n", "is_open", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.key, parseErr.Key)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race.set")
	require.NoError(t, os.WriteFile(path, []byte("[point_types.WPV]\nis_open=maybe\n-\n"), 0644))

	_, err := Load(path, zap.NewNop())
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
