// app/app.go

// Package app drives the note list and the note editor. Network calls go
// through a NoteAPI; the Store is only mutated after the backend confirmed
// the change.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/store"
)

// FirstID is used for a note created while the store is empty.
const FirstID = store.FirstID

// NoteAPI is the part of the transport client the app depends on.
type NoteAPI interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	GetNote(ctx context.Context, id int) (domain.Note, error)
	CreateNote(ctx context.Context, title string) error
	UpdateNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, id int) error
}

type App struct {
	api   NoteAPI
	notes *store.Store
	log   zerolog.Logger
}

func New(api NoteAPI, notes *store.Store, log zerolog.Logger) *App {
	return &App{api: api, notes: notes, log: log}
}

// Row is one line of the note list.
type Row struct {
	ID    int
	Label string
	Draft bool
}

// Refresh replaces the store with the backend's list.
func (a *App) Refresh(ctx context.Context) error {
	notes, err := a.api.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	a.notes.Replace(notes)
	a.log.Debug().Int("count", len(notes)).Msg("notes loaded")
	return nil
}

func (a *App) Rows() []Row {
	notes := a.notes.All()
	rows := make([]Row, len(notes))
	for i, n := range notes {
		rows[i] = Row{ID: n.ID, Label: n.Label(), Draft: n.IsDraft()}
	}
	return rows
}

// Note returns the stored note with the given id.
func (a *App) Note(id int) (domain.Note, error) {
	n, ok := a.notes.Get(id)
	if !ok {
		return domain.Note{}, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

// Open fetches a single note from the backend without touching the store.
func (a *App) Open(ctx context.Context, id int) (domain.Note, error) {
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("open note %d: %w", id, err)
	}
	return n, nil
}

// Create posts a new note and records it locally under a client-chosen id,
// since the backend does not report one.
func (a *App) Create(ctx context.Context, title string) (domain.Note, error) {
	if err := a.api.CreateNote(ctx, title); err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}

	note := a.notes.AddNext(title)
	a.log.Info().Int("id", note.ID).Msg("note created")
	return note, nil
}

func (a *App) Save(ctx context.Context, note domain.Note) error {
	if err := a.api.UpdateNote(ctx, note); err != nil {
		return fmt.Errorf("update note %d: %w", note.ID, err)
	}
	if !a.notes.Update(note) {
		a.log.Warn().Int("id", note.ID).Msg("updated note is not in the local list")
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id int) error {
	if err := a.api.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	a.notes.Remove(domain.Note{ID: id})
	a.log.Info().Int("id", id).Msg("note deleted")
	return nil
}
