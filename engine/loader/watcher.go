package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/fsnotify/fsnotify"
)

func (l *loader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	// editors replace files by rename, so the directory is watched rather than the file
	dirs := make(map[string]struct{})
	for _, p := range l.Paths() {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	common.Logger().Info("watching asset directories", "count", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			l.handleEvent(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			common.Logger().Warn("asset watcher error", "error", err)
		}
	}
}

func (l *loader) handleEvent(ev fsnotify.Event) {
	key := filepath.Clean(ev.Name)

	if id, ok := l.cached(l.imageCache, key); ok {
		switch {
		case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
			img, err := l.decodeImage(key)
			if err != nil {
				// a half-written file fails to decode; the next write event retries
				common.Logger().Warn("image reload failed", "path", key, "error", err)
				return
			}
			l.images.Insert(id, img)
			common.Logger().Info("image reloaded", "path", key, "id", id)
		case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
			if l.exists(key) {
				return
			}
			l.images.Remove(id)
			common.Logger().Info("image removed", "path", key, "id", id)
		}
		return
	}

	if id, ok := l.cached(l.atlasCache, key); ok {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
			return
		}
		layout, err := l.decodeAtlas(key)
		if err != nil {
			common.Logger().Warn("atlas layout reload failed", "path", key, "error", err)
			return
		}
		l.layouts.Insert(id, layout)
		common.Logger().Info("atlas layout reloaded", "path", key, "id", id)
	}
}

func (l *loader) exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
