// filesystem/watch.go
package filesystem

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/events"
)

// Watch reports note files changed by anything other than this Repository,
// such as an editor opened on the notes directory. It blocks until ctx is
// done.
func (r *Repository) Watch(ctx context.Context, emit func(events.Event)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if out, changed := r.classify(ev); changed {
				emit(out)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warn().Err(err).Msg("notes watcher error")
		}
	}
}

// classify turns a filesystem event into a note event, skipping changes that
// match what this process last wrote.
func (r *Repository) classify(ev fsnotify.Event) (events.Event, bool) {
	id, ok := idFromPath(ev.Name)
	if !ok || filepath.Dir(ev.Name) != filepath.Clean(r.dir) {
		return events.Event{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	title, known := r.known[id]

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if !known {
			return events.Event{}, false
		}
		delete(r.known, id)
		return events.Event{Type: events.NoteDeleted, Note: &domain.Note{ID: id, Title: title}}, true
	}

	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return events.Event{}, false
	}
	rec, err := readRecord(ev.Name)
	if err != nil {
		// Partially written; the next write event will carry the full file.
		return events.Event{}, false
	}
	if known && rec.Title == title {
		return events.Event{}, false
	}
	r.known[id] = rec.Title

	note := rec.note()
	if known {
		return events.Event{Type: events.NoteUpdated, Note: &note}, true
	}
	return events.Event{Type: events.NoteCreated, Note: &note}, true
}
