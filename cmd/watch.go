// =============================================================================
// Roadbook Converter - Watch Command
// =============================================================================
//
// This file defines the 'watch' command. It converts the workbook once and
// converts it again every time the workbook or the dataset file changes,
// until interrupted.
//
// COMMAND USAGE:
//   roadbook watch --file <xlsx> [flags]
//
// The parent directories are watched rather than the files themselves:
// spreadsheet editors usually save by writing a temporary file and renaming it
// over the original, which drops a watch placed on the file.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/roadbook-converter/internal/config"
	"github.com/ginjaninja78/roadbook-converter/internal/log"
)

// settleDelay collapses the burst of events produced by a single save.
const settleDelay = 300 * time.Millisecond

// =============================================================================
// WATCH COMMAND DEFINITION
// =============================================================================

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert again whenever the workbook or dataset changes",
		Long: `The watch command performs a conversion, then keeps watching the workbook
and the dataset file and converts again after every change. Failed
conversions are logged and do not stop the watch. Stop it with Ctrl+C.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, cfg, log.Logger, cmd.OutOrStdout())
		},
	}

	addConversionFlags(cmd)
	return cmd
}

// =============================================================================
// WATCH LOOP
// =============================================================================

// watch converts once and then after every relevant file change until ctx is
// done. Conversions run one at a time on the calling goroutine.
func watch(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := watchTargets(cfg)
	for dir := range watchDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", zap.String("dir", dir))
	}

	convertLogged(cfg, logger, out)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isRelevant(event, targets) {
				logger.Debug("change detected",
					zap.String("path", event.Name),
					zap.String("op", event.Op.String()))
				settle = time.After(settleDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", zap.Error(err))

		case <-settle:
			settle = nil
			convertLogged(cfg, logger, out)
		}
	}
}

// convertLogged runs one conversion. Errors are already logged by runConvert
// and must not end the watch.
func convertLogged(cfg *config.Config, logger *zap.Logger, out io.Writer) {
	if err := runConvert(cfg, logger, out); err != nil {
		fmt.Fprintf(out, "Conversion failed: %v\n", err)
	}
}

// watchTargets returns the cleaned absolute paths of the watched files.
func watchTargets(cfg *config.Config) map[string]bool {
	targets := make(map[string]bool)
	for _, path := range []string{cfg.InputFile, cfg.DatasetFile} {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		targets[filepath.Clean(path)] = true
	}
	return targets
}

func watchDirs(targets map[string]bool) map[string]bool {
	dirs := make(map[string]bool, len(targets))
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	return dirs
}

// isRelevant reports whether event changes the content of a watched file.
func isRelevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := event.Name
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	return targets[filepath.Clean(name)]
}
