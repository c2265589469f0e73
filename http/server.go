// http/server.go

// Package http serves the notes REST backend:
//
//	GET    /notes         list notes
//	POST   /notes         create from form field "title"
//	GET    /notes/events  server-sent change events
//	GET    /notes/:id     one note
//	PUT    /notes/:id     retitle from form field "title"
//	DELETE /notes/:id     delete
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/events"
)

type Server struct {
	repo domain.NoteRepository
	hub  *events.Hub
	log  zerolog.Logger
	app  *fiber.App
}

func NewServer(repo domain.NoteRepository, hub *events.Hub, log zerolog.Logger) *Server {
	s := &Server{repo: repo, hub: hub, log: log}

	s.app = fiber.New(fiber.Config{
		AppName:               "instantnotes-mock",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	s.app.Use(s.accessLog)
	s.app.Use(cors)

	notes := s.app.Group("/notes")
	notes.Get("/", s.HandleNotes)
	notes.Post("/", s.HandleCreateNote)
	notes.Get("/events", s.HandleEvents)
	notes.Get("/:id", s.HandleGetNote)
	notes.Put("/:id", s.HandleUpdateNote)
	notes.Delete("/:id", s.HandleDeleteNote)

	return s
}

// App exposes the fiber application, mostly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func cors(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, X-Request-ID")

	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Next()
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	ev := s.log.Info()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return err
}
