// store/store.go

// Package store holds the authoritative in-memory collection of notes.
//
// A Store is created by the composition root and handed to whatever needs to
// read or mutate notes. All methods are safe for concurrent use.
package store

import (
	"errors"
	"sync"

	"github.com/vinizap/instantnotes/domain"
)

var (
	ErrEmpty        = errors.New("store: collection is empty")
	ErrDuplicateID  = errors.New("store: note id already present")
	ErrUnassignedID = errors.New("store: note has no assigned id")
)

// FirstID is the id AddNext gives a note added to an empty collection.
const FirstID = 1

type Store struct {
	mu    sync.RWMutex
	notes []domain.Note
}

func New() *Store {
	return &Store{}
}

// Add appends note to the end of the collection. Notes without an id or with
// an id already present are rejected and the collection is left untouched.
func (s *Store) Add(note domain.Note) error {
	if note.IsNew() {
		return ErrUnassignedID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(note.ID) >= 0 {
		return ErrDuplicateID
	}
	s.notes = append(s.notes, note)
	return nil
}

// Update replaces the title of the note sharing note.ID, keeping its position.
// It reports whether a note was found; a missing id changes nothing.
func (s *Store) Update(note domain.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(note.ID)
	if i < 0 {
		return false
	}
	s.notes[i].Title = note.Title
	return true
}

// Remove drops every note sharing note.ID and reports whether any was found.
func (s *Store) Remove(note domain.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != note.ID {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(s.notes)
	clear(s.notes[len(kept):])
	s.notes = kept
	return removed
}

// NextID returns one more than the largest id in the collection.
//
// The value is only unique within this process: a backend that does not hand
// out ids forces clients to guess, and two clients creating notes at the same
// time will pick the same id.
func (s *Store) NextID() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.notes) == 0 {
		return 0, ErrEmpty
	}
	return s.maxID() + 1, nil
}

// AddNext appends a note with title under NextID, or FirstID when the
// collection is empty. Choosing the id and appending happen under one lock,
// so concurrent callers never draw the same id.
func (s *Store) AddNext(title string) domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := FirstID
	if len(s.notes) > 0 {
		id = s.maxID() + 1
	}
	note := domain.Note{ID: id, Title: title}
	s.notes = append(s.notes, note)
	return note
}

// Replace swaps the whole collection, typically after fetching every note
// from the backend.
func (s *Store) Replace(notes []domain.Note) {
	cp := make([]domain.Note, len(notes))
	copy(cp, notes)

	s.mu.Lock()
	s.notes = cp
	s.mu.Unlock()
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]domain.Note, len(s.notes))
	copy(cp, s.notes)
	return cp
}

func (s *Store) Get(id int) (domain.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return domain.Note{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// maxID must be called with s.mu held on a non-empty collection.
func (s *Store) maxID() int {
	top := s.notes[0].ID
	for _, n := range s.notes[1:] {
		if n.ID > top {
			top = n.ID
		}
	}
	return top
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
