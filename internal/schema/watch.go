package schema

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads r whenever the file at path is written or replaced. It
// watches the parent directory so editors that save via rename are seen.
// onReload, if set, is called with the result of every reload attempt.
// Watch returns once the watcher is installed; it stops when ctx is done.
func Watch(ctx context.Context, r *Registry, path string, log *zap.Logger, onReload func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				err := r.Reload(ctx)
				if err != nil {
					log.Warn("Catalog reload failed, keeping previous catalog", zap.String("path", abs), zap.Error(err))
				} else {
					log.Info("Catalog reloaded", zap.String("path", abs), zap.Int("tables", len(r.ListTables())))
				}
				if onReload != nil {
					onReload(err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("Error watching catalog", zap.Error(err))
			}
		}
	}()
	return nil
}
