package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/roadbook-converter/internal/config"
	"github.com/ginjaninja78/roadbook-converter/internal/types"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeWorkbook(t *testing.T, path string, odo float64) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Roadbook"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Prologue"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "N"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4",
		&[]any{1.0, "Start", "WPV", "45°30,5", "N", "12°15,0", "E", 0.0}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A5",
		&[]any{2.0, "Finish", "WPE", "45°31,0", "N", "12°16,0", "E", odo}))
	require.NoError(t, f.SaveAs(path))
}

func fileNamingConfig(t *testing.T, dir string) *config.Config {
	t.Helper()

	input := filepath.Join(dir, "prologue.xlsx")
	writeWorkbook(t, input, 10)

	cfg := &config.Config{
		InputFile: input,
		Naming:    config.NamingFile,
		OutputDir: filepath.Join(dir, "output"),
	}
	require.NoError(t, cfg.ApplyDefaults())
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunConvertDryRunPrintsYAML(t *testing.T) {
	dir := t.TempDir()
	cfg := fileNamingConfig(t, dir)
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, runConvert(cfg, zap.NewNop(), &out))
	assert.NoDirExists(t, cfg.OutputDir)

	var doc types.Document
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Days, 1)
	assert.Equal(t, "Sheet1", doc.Days[0].Code)
	assert.Len(t, doc.Days[0].Points, 3)
	assert.Equal(t, "Prologue", doc.Races.Info.RaceName)
	assert.Equal(t, uint32(10000), doc.Days[0].Points[1].Odo)
}

func TestRunConvertWritesOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := fileNamingConfig(t, dir)

	var out bytes.Buffer
	require.NoError(t, runConvert(cfg, zap.NewNop(), &out))

	path := filepath.Join(cfg.OutputDir, "config_prologue.ini")
	assert.Equal(t, "Config saved to "+path+"\n", out.String())
	assert.FileExists(t, path)
}

func TestRunConvertMissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	cfg := fileNamingConfig(t, dir)
	cfg.InputFile = filepath.Join(dir, "missing.xlsx")

	assert.Error(t, runConvert(cfg, zap.NewNop(), &bytes.Buffer{}))
}

func TestIsRelevant(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "rally.xlsx")
	targets := watchTargets(&config.Config{InputFile: workbook})

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to workbook", fsnotify.Event{Name: workbook, Op: fsnotify.Write}, true},
		{"workbook replaced", fsnotify.Event{Name: workbook, Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: workbook, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "~$rally.xlsx"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevant(tt.event, targets))
		})
	}
}

func TestWatchTargetsSkipsEmptyDataset(t *testing.T) {
	targets := watchTargets(&config.Config{InputFile: "rally.xlsx"})
	assert.Len(t, targets, 1)
	assert.Len(t, watchDirs(targets), 1)
}

func TestWatchReconvertsOnChange(t *testing.T) {
	dir := t.TempDir()
	cfg := fileNamingConfig(t, dir)
	output := filepath.Join(cfg.OutputDir, "config_prologue.ini")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, cfg, zap.NewNop(), out)
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Config saved to") == 1
	}, 5*time.Second, 20*time.Millisecond)

	writeWorkbook(t, cfg.InputFile, 42.5)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && strings.Contains(string(data), "odo=42500")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestDefaultMaxSpeedFlag(t *testing.T) {
	cmd := newConvertCmd()
	flag := cmd.Flags().Lookup("default-max-speed")
	require.NotNil(t, flag)

	assert.Equal(t, "110", flag.DefValue)
	assert.Contains(t, flag.Usage, "0 selects 110")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "Roadbook Converter")
	assert.Contains(t, out.String(), "Version:    "+Version)
}
