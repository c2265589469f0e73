// app/editor.go
package app

import (
	"context"
	"errors"

	"github.com/vinizap/instantnotes/domain"
)

type Mode int

const (
	ModeEditing Mode = iota
	ModePreview
)

func (m Mode) String() string {
	if m == ModePreview {
		return "Preview"
	}
	return "Editor"
}

var ErrNotEditing = errors.New("editor is in preview mode")

// Editor holds one note being viewed or edited. A new draft opens for
// editing, an existing note opens as a preview.
type Editor struct {
	app  *App
	note domain.Note
	mode Mode
}

// NewEditor opens note, or a fresh draft when note is nil.
func (a *App) NewEditor(note *domain.Note) *Editor {
	e := &Editor{app: a, note: domain.NewDraft(), mode: ModeEditing}
	if note != nil {
		e.note = *note
	}
	if !e.note.IsNew() {
		e.mode = ModePreview
	}
	return e
}

func (e *Editor) Mode() Mode        { return e.mode }
func (e *Editor) Title() string     { return e.mode.String() }
func (e *Editor) Note() domain.Note { return e.note }

func (e *Editor) SetText(text string) error {
	if e.mode != ModeEditing {
		return ErrNotEditing
	}
	e.note.Title = text
	return nil
}

// Done is the editor's single action button. In preview it switches to
// editing. In editing it saves the note and returns to preview; on failure
// the editor stays in editing mode so nothing typed is lost.
func (e *Editor) Done(ctx context.Context) error {
	if e.mode == ModePreview {
		e.mode = ModeEditing
		return nil
	}

	if e.note.IsNew() {
		created, err := e.app.Create(ctx, e.note.Title)
		if err != nil {
			return err
		}
		e.note = created
	} else if err := e.app.Save(ctx, e.note); err != nil {
		return err
	}
	e.mode = ModePreview
	return nil
}
