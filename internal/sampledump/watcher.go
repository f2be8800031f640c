package sampledump

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
)

// changeOps excludes Rename, which fsnotify reports for the old name when the
// file is moved away. A file moved into place arrives as Create.
const changeOps = fsnotify.Write | fsnotify.Create

// Watch calls onChange whenever the file at path is written or created,
// including when another file is moved onto path. It watches the parent
// directory so editors that replace the file are seen. Watch blocks until
// ctx is cancelled and works on the OS filesystem only.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(err).
			Component("sampledump").
			Category(errors.CategorySystem).
			Context("operation", "watch").
			Build()
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.New(err).
			Component("sampledump").
			Category(errors.CategoryFileIO).
			Context("operation", "watch").
			FileContext(target, 0).
			Build()
	}

	log := getLogger()
	log.Debug("Watching sample dump for changes", logger.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target && event.Op&changeOps != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Sample dump watcher error", logger.Error(err))
		}
	}
}
