package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	checkerrors "github.com/aledsdavies/adacheck/pkgs/errors"
)

// watch checks file once, then again after every write, until ctx is done.
// The parent directory is watched because editors often save by replacing the file.
func watch(ctx context.Context, file string, c *checker) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return checkerrors.Wrap(checkerrors.ErrWatch, "cannot start file watcher", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(file)
	if err != nil {
		return checkerrors.Wrap(checkerrors.ErrWatch, "cannot resolve "+file, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return checkerrors.Wrap(checkerrors.ErrWatch, "cannot watch "+file, err).
			WithContext("path", file)
	}

	if _, err := c.checkInput(file); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			c.logger.Debug("file changed", slog.String("path", file), slog.String("op", event.Op.String()))
			if _, err := c.checkInput(file); err != nil {
				// The file may be mid-replace; the next event retries
				c.logger.Warn("re-check failed", slog.String("error", err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
