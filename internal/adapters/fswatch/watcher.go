package fswatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"diagrammer/internal/adapters/filesystem"
	"diagrammer/internal/application"
)

// Watcher regenerates MySQL DDL whenever an ERD snapshot file changes
type Watcher struct {
	input  string
	output string
	logger *slog.Logger

	// OnGenerate is called after each successful regeneration
	OnGenerate func(sql string)
}

// NewWatcher creates a watcher that reads the ERD JSON at input and writes
// the generated SQL to output
func NewWatcher(input, output string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{input: input, output: output, logger: logger}
}

// Regenerate imports the snapshot into a scratch store and writes its DDL.
// The output is left untouched when the snapshot is malformed.
func (w *Watcher) Regenerate() error {
	text, err := filesystem.ReadFile(w.input)
	if err != nil {
		return err
	}

	store := application.NewERDStore(application.WithLogger(w.logger))
	if err := store.ImportJSON(text); err != nil {
		return fmt.Errorf("failed to import %s: %w", w.input, err)
	}

	sql := store.ExportSQL()
	if err := filesystem.WriteFile(w.output, []byte(sql)); err != nil {
		return err
	}
	if w.OnGenerate != nil {
		w.OnGenerate(sql)
	}
	return nil
}

// Run generates once, then regenerates on every write until ctx is done.
// The parent directory is watched so editors that save by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.input)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := w.Regenerate(); err != nil {
		w.logger.Warn("initial generation failed", "input", w.input, "error", err)
	}

	target := filepath.Clean(w.input)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if _, err := os.Stat(target); err != nil {
				continue
			}
			if err := w.Regenerate(); err != nil {
				w.logger.Warn("skipping snapshot", "input", w.input, "error", err)
				continue
			}
			w.logger.Info("regenerated schema", "output", w.output)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}
