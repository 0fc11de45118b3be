package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jcdickinson/soldoc/internal/config"
)

func runWatch(cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, cfg.Src); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuild := func() {
		res, err := build(ctx, cfg, buildArtifact, buildCached)
		if err != nil {
			slog.Error("build failed", "error", err)
			return
		}
		slog.Info("rebuilt documentation", "documents", len(res.Documents), "dir", cfg.Out)
	}
	rebuild()

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	slog.Info("watching for changes", "dir", cfg.Src, "debounce", debounce)

	errCh := make(chan error, 1)
	go func() { errCh <- watchLoop(ctx, watcher, cfg.Extension, debounce, rebuild) }()

	return waitForSignal(errCh)
}

// watchTree adds root and every directory below it.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// watchLoop calls rebuild once per burst of source changes. It returns when
// ctx is cancelled or the watcher closes.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, ext string, debounce time.Duration, rebuild func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						slog.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					timer.Reset(debounce)
					continue
				}
			}
			if !relevant(event, ext) {
				continue
			}
			slog.Debug("source changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		case <-timer.C:
			rebuild()
		}
	}
}

func relevant(event fsnotify.Event, ext string) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	// Removed directories carry no extension.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return strings.HasSuffix(event.Name, ext) || filepath.Ext(event.Name) == ""
	}
	return strings.HasSuffix(event.Name, ext)
}
