// domain/note.go
package domain

import (
	"context"
	"errors"
)

// UnassignedID marks a note that has no persistent identifier yet.
const UnassignedID = -1

// DraftLabel is shown in listings for a note without a title.
const DraftLabel = "[Draft]"

var ErrNotFound = errors.New("note not found")

type Note struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// NewDraft returns the note an editor starts from when nothing was selected.
func NewDraft() Note {
	return Note{ID: UnassignedID}
}

func (n Note) IsNew() bool {
	return n.ID == UnassignedID
}

func (n Note) IsDraft() bool {
	return n.Title == ""
}

func (n Note) Label() string {
	if n.IsDraft() {
		return DraftLabel
	}
	return n.Title
}

// NoteRepository is the storage behind the notes backend.
type NoteRepository interface {
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id int) (Note, error)
	Create(ctx context.Context, title string) (Note, error)
	Update(ctx context.Context, id int, title string) (Note, error)
	Delete(ctx context.Context, id int) error
	Close() error
}
