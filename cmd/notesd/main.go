// cmd/notesd/main.go

// notesd is a small notes backend speaking the REST contract instantnotes
// expects. Notes live in a directory of markdown files, or in PostgreSQL when
// NOTES_DATABASE_URL is set.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/config"
	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/events"
	"github.com/vinizap/instantnotes/filesystem"
	httphandlers "github.com/vinizap/instantnotes/http"
	"github.com/vinizap/instantnotes/logging"
	"github.com/vinizap/instantnotes/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("notesd stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub(log.With().Str("component", "events").Logger())
	go hub.Run(ctx)

	repo, err := openRepository(ctx, cfg, hub, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	server := httphandlers.NewServer(repo, hub, log.With().Str("component", "http").Logger())

	errc := make(chan error, 1)
	go func() { errc <- server.Listen(cfg.Addr) }()
	log.Info().Str("addr", cfg.Addr).Msg("notesd listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := server.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openRepository(ctx context.Context, cfg config.Config, hub *events.Hub, log zerolog.Logger) (domain.NoteRepository, error) {
	if cfg.DatabaseURL != "" {
		plog := log.With().Str("component", "postgres").Logger()
		if err := postgres.Migrate(cfg.DatabaseURL, plog); err != nil {
			return nil, err
		}
		log.Info().Msg("using postgres storage")
		return postgres.Open(ctx, cfg.DatabaseURL, plog)
	}

	flog := log.With().Str("component", "filesystem").Logger()
	repo, err := filesystem.Open(cfg.Root, flog)
	if err != nil {
		return nil, err
	}
	go func() {
		emit := func(ev events.Event) { hub.Broadcast(ev.Type, ev.Note) }
		if err := repo.Watch(ctx, emit); err != nil {
			flog.Warn().Err(err).Msg("external edits will not be reported")
		}
	}()
	log.Info().Str("root", cfg.Root).Msg("using filesystem storage")
	return repo, nil
}
