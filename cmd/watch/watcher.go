package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".venv":        true,
}

// buildGraphFiles are the files whose edits can change the target graph.
var buildGraphFiles = map[string]bool{
	"BUILD":           true,
	"BUILD.bazel":     true,
	"WORKSPACE":       true,
	"WORKSPACE.bazel": true,
	"MODULE.bazel":    true,
}

// watchAndRebuild calls rebuild once changes under root settle, until ctx is
// done. Rebuilds run on the calling goroutine, one at a time.
func watchAndRebuild(ctx context.Context, root string, logger *slog.Logger, rebuild func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				addIfDirectory(event.Name, watcher.Add, logger)
			}
			if !isRelevantChange(event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			debounce.Reset(debounceInterval)

		case <-debounce.C:
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("source database rebuild failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if buildGraphFiles[base] {
		return true
	}
	switch filepath.Ext(base) {
	case ".py", ".bzl":
		return true
	}
	return false
}

func skipDir(name string) bool {
	return skippedDirs[name] || strings.HasPrefix(name, "bazel-")
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers root and its subdirectories with add.
// Directories that vanish during the walk are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(path string, add func(string) error, logger *slog.Logger) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := addWatchDirsWithAdder(path, add); err != nil {
		logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}
