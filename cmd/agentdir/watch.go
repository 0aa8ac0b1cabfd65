package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/presenter"
)

// watchContent runs onChange once immediately and again after every burst of
// changes below root, until ctx is cancelled.
func watchContent(ctx context.Context, root string, delay time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := addTree(ctx, watcher, root); err != nil {
		return errors.Wrap(err, "failed to watch content directory")
	}

	onChange()
	presenter.Info("Watching for content changes... Press Ctrl+C to stop")

	changes := make(chan struct{})
	settled := make(chan struct{}, 1)
	go debounce(ctx, changes, settled, delay)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(ctx, watcher, event.Name); err != nil {
						logger.G(ctx).WithError(err).WithField("directory", event.Name).Warn("failed to watch new directory")
					}
				}
			}
			if !isContentEvent(event) {
				continue
			}
			logger.G(ctx).WithField("file", event.Name).WithField("operation", event.Op.String()).Debug("content change detected")
			select {
			case changes <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
		case <-settled:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("error watching content")
		case <-ctx.Done():
			return nil
		}
	}
}

func addTree(ctx context.Context, watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		logger.G(ctx).WithField("directory", path).Debug("adding directory to watcher")
		return watcher.Add(path)
	})
}

// isContentEvent reports whether event can change validation results:
// markdown edits and anything removed or renamed, which may be a directory.
func isContentEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// debounce signals output once input has been quiet for delay. Signals that
// output has not consumed yet are coalesced.
func debounce(ctx context.Context, input <-chan struct{}, output chan<- struct{}, delay time.Duration) {
	var fire <-chan time.Time

	for {
		select {
		case <-input:
			fire = time.After(delay)
		case <-fire:
			fire = nil
			select {
			case output <- struct{}{}:
			default:
			}
		case <-ctx.Done():
			return
		}
	}
}
