// postgres/postgres.go

// Package postgres keeps notes in a PostgreSQL table.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrSchemaMissing = errors.New("postgres: notes table missing, run migrations")
	ErrUnavailable   = errors.New("postgres: database unavailable")
)

// Migrate brings the schema at dsn up to date.
func Migrate(dsn string, log zerolog.Logger) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema migrated")
	return nil
}

// migrateURL rewrites a libpq style URL for the pgx/v5 migrate driver.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

type Repository struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

type noteRow struct {
	ID    int    `db:"id"`
	Title string `db:"title"`
}

func (r noteRow) note() domain.Note {
	return domain.Note{ID: r.ID, Title: r.Title}
}

func Open(ctx context.Context, dsn string, log zerolog.Logger) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapErr(err)
	}
	return &Repository{pool: pool, log: log}, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Note, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title FROM notes ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[noteRow])
	if err != nil {
		return nil, mapErr(err)
	}
	notes := make([]domain.Note, len(recs))
	for i, rec := range recs {
		notes[i] = rec.note()
	}
	return notes, nil
}

func (r *Repository) Get(ctx context.Context, id int) (domain.Note, error) {
	return r.one(ctx, id, `SELECT id, title FROM notes WHERE id = $1`, id)
}

func (r *Repository) Create(ctx context.Context, title string) (domain.Note, error) {
	return r.one(ctx, 0, `INSERT INTO notes (title) VALUES ($1) RETURNING id, title`, title)
}

func (r *Repository) Update(ctx context.Context, id int, title string) (domain.Note, error) {
	return r.one(ctx, id,
		`UPDATE notes SET title = $2, updated_at = now() WHERE id = $1 RETURNING id, title`,
		id, title)
}

func (r *Repository) one(ctx context.Context, id int, sql string, args ...any) (domain.Note, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return domain.Note{}, mapErr(err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[noteRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Note{}, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Note{}, mapErr(err)
	}
	return rec.note(), nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgerrcode.UndefinedTable:
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code),
		pgErr.Code == pgerrcode.AdminShutdown,
		pgErr.Code == pgerrcode.CannotConnectNow:
		return fmt.Errorf("%w: %s", ErrUnavailable, pgErr.Message)
	}
	return err
}
