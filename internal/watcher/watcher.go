// Package watcher reports changes to documents in the documents directory.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/parser"
)

// Kind is the kind of a settled document change.
type Kind string

const (
	Created Kind = "created"
	Updated Kind = "updated"
	Deleted Kind = "deleted"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Created || k == Updated || k == Deleted
}

// Change describes one document after a burst of file events settled.
type Change struct {
	Kind   Kind
	Name   string // base file name
	Slug   string
	Hidden bool
	Title  *string // nil for deletions and untitled documents
}

// Handler receives settled changes in file name order.
type Handler func(Change)

// debounce coalesces the bursts of events editors produce on save.
const debounce = 100 * time.Millisecond

// Watch watches dir (not its subdirectories) until ctx is cancelled and calls
// h for every settled change to a file the parser recognises as a document.
func Watch(ctx context.Context, dir string, p *parser.Parser, logger *slog.Logger, h Handler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	pending := make(map[string]Kind)
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for _, name := range slices.Sorted(maps.Keys(pending)) {
				c := describe(dir, p, name, pending[name], logger)
				logger.Debug("watcher: change", slog.String("name", name), slog.String("kind", string(c.Kind)))
				if h != nil {
					h(c)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !p.IsDocument(name) {
				continue
			}

			var kind Kind
			switch {
			case ev.Op&fsnotify.Create != 0:
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					continue
				}
				kind = Created
			case ev.Op&fsnotify.Write != 0:
				kind = Updated
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old name; the new name arrives as Create.
				kind = Deleted
			default:
				continue
			}

			pending[name] = merge(pending[name], kind)
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// describe reads the settled file so the change carries its title. A file
// that vanished before the burst settled is reported as deleted.
func describe(dir string, p *parser.Parser, name string, kind Kind, logger *slog.Logger) Change {
	c := Change{Kind: kind, Name: name, Slug: p.Slug(name), Hidden: p.Hidden(name)}
	if kind == Deleted {
		return c
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.Kind = Deleted
	case err != nil:
		logger.Warn("watcher: read failed", slog.String("name", name), slog.String("error", err.Error()))
	default:
		if doc := p.Parse(name, string(data)); doc.Metadata != nil {
			c.Title = doc.Metadata.Title
		}
	}
	return c
}

// merge folds a new change into the one already pending for a file.
func merge(prev, next Kind) Kind {
	switch {
	case prev == Created && next == Updated:
		return Created
	case prev == Deleted && next == Created:
		return Updated
	default:
		return next
	}
}
