// http/handlers.go
package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/events"
)

const keepAliveInterval = 15 * time.Second

func (s *Server) HandleNotes(c *fiber.Ctx) error {
	notes, err := s.repo.List(c.UserContext())
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return c.JSON(notes)
}

func (s *Server) HandleGetNote(c *fiber.Ctx) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := s.repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(note)
}

// HandleCreateNote stores a note from a form-encoded title. Like the backend
// the client was written for, the response does not carry the new id.
func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	note, err := s.repo.Create(c.UserContext(), c.FormValue("title"))
	if err != nil {
		return err
	}

	s.hub.Broadcast(events.NoteCreated, &note)

	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) HandleUpdateNote(c *fiber.Ctx) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := s.repo.Update(c.UserContext(), id, c.FormValue("title"))
	if err != nil {
		return err
	}

	s.hub.Broadcast(events.NoteUpdated, &note)

	return c.JSON(note)
}

func (s *Server) HandleDeleteNote(c *fiber.Ctx) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := s.repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(c.UserContext(), id); err != nil {
		return err
	}

	s.hub.Broadcast(events.NoteDeleted, &note)

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleEvents streams note changes as server-sent events until the client
// goes away or the hub stops.
func (s *Server) HandleEvents(c *fiber.Ctx) error {
	ch, cancel := s.hub.Subscribe(c.UserContext())

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					s.log.Error().Err(err).Msg("encode event")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

func noteID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Note ID must be an integer")
	}
	return id, nil
}

// errorHandler turns handler errors into plain text responses.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.Is(err, domain.ErrNotFound):
		code, msg = fiber.StatusNotFound, "Note not found"
	}

	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).SendString(msg)
}
