// filesystem/repository.go

// Package filesystem stores notes as markdown files with YAML frontmatter,
// one file per note named after its id.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
)

const (
	lockFile       = ".notes.lock"
	lockRetryDelay = 20 * time.Millisecond
)

// Repository implements domain.NoteRepository on a directory. Writes are
// serialized within the process by a mutex and across processes by a lock
// file, so ids handed out by Create never collide.
type Repository struct {
	dir  string
	lock *flock.Flock
	log  zerolog.Logger

	mu    sync.Mutex
	known map[int]string // id -> title as last written or read by us
}

func Open(dir string, log zerolog.Logger) (*Repository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	r := &Repository{
		dir:   dir,
		lock:  flock.New(filepath.Join(dir, lockFile)),
		log:   log,
		known: make(map[int]string),
	}

	recs, err := listRecords(dir)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		r.known[rec.ID] = rec.Title
	}
	return r, nil
}

func (r *Repository) Dir() string {
	return r.dir
}

// withLock runs fn holding both the process mutex and the directory lock.
func (r *Repository) withLock(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock notes dir: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock notes dir: %s is busy", r.dir)
	}
	defer r.lock.Unlock()

	return fn()
}

func (r *Repository) List(ctx context.Context) ([]domain.Note, error) {
	recs, err := listRecords(r.dir)
	if err != nil {
		return nil, err
	}
	notes := make([]domain.Note, len(recs))
	for i, rec := range recs {
		notes[i] = rec.note()
	}
	return notes, nil
}

func (r *Repository) Get(ctx context.Context, id int) (domain.Note, error) {
	rec, err := r.read(id)
	if err != nil {
		return domain.Note{}, err
	}
	return rec.note(), nil
}

func (r *Repository) read(id int) (*record, error) {
	rec, err := readRecord(notePath(r.dir, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create stores a note under the next free id, one more than the largest id
// among the note file names, readable or not.
func (r *Repository) Create(ctx context.Context, title string) (domain.Note, error) {
	var note domain.Note
	err := r.withLock(ctx, func() error {
		top, err := maxFileID(r.dir)
		if err != nil {
			return err
		}
		id := top + 1

		now := time.Now().UTC()
		rec := &record{
			ID:        id,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
			path:      notePath(r.dir, id),
		}
		if err := writeRecord(rec); err != nil {
			return err
		}
		r.known[id] = title
		note = rec.note()
		return nil
	})
	if err != nil {
		return domain.Note{}, err
	}
	r.log.Debug().Int("id", note.ID).Msg("note file created")
	return note, nil
}

func (r *Repository) Update(ctx context.Context, id int, title string) (domain.Note, error) {
	var note domain.Note
	err := r.withLock(ctx, func() error {
		rec, err := r.read(id)
		if err != nil {
			return err
		}
		rec.Title = title
		rec.UpdatedAt = time.Now().UTC()
		if err := writeRecord(rec); err != nil {
			return err
		}
		r.known[id] = title
		note = rec.note()
		return nil
	})
	return note, err
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.withLock(ctx, func() error {
		err := os.Remove(notePath(r.dir, id))
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}
		delete(r.known, id)
		return nil
	})
}

func (r *Repository) Close() error {
	return r.lock.Close()
}
