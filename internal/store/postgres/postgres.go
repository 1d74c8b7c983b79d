// Package postgres is the remote, authoritative store for mood records and
// custom categories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
)

const backendName = "remote"

// builder renders $n placeholders for pgx.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scopeEq matches rows owned by scope. The anonymous scope is the NULL owner.
func scopeEq(scope models.Scope) sq.Eq {
	if scope.IsAnonymous() {
		return sq.Eq{"owner_scope": nil}
	}
	return sq.Eq{"owner_scope": scope.UserID}
}

// SchemaEnsurer makes sure the tables exist before a query runs.
type SchemaEnsurer interface {
	Ensure(ctx context.Context) error
}

// Store holds the connection shared by the record and category repositories.
type Store struct {
	db     *sqlx.DB
	schema SchemaEnsurer
}

type Option func(*Store)

// WithSchema makes every query wait for schema. Until it is ready queries
// fail and the caller falls back to another backend.
func WithSchema(schema SchemaEnsurer) Option {
	return func(s *Store) { s.schema = schema }
}

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return backendName }

// Owns is always false: every id could have been written while the remote
// store was unreachable, so non-local ids keep the full fallback chain.
func (s *Store) Owns(string) bool { return false }

// Ping reports whether the database is reachable and its schema ready.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	return s.ready(ctx)
}

func (s *Store) ready(ctx context.Context) error {
	if s.schema == nil {
		return nil
	}
	return s.schema.Ensure(ctx)
}

func (s *Store) get(ctx context.Context, dest any, q sq.Sqlizer) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, q sq.Sqlizer) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

func (s *Store) exec(ctx context.Context, q sq.Sqlizer) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// mapError converts pgconn errors into domain errors.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domainerrors.AlreadyExists(op + ": " + pgErr.ConstraintName).WithCause(err)
		case "23514", "22001", "22007", "22008": // check_violation, string_data_right_truncation, invalid dates
			return domainerrors.Validation(op + ": " + pgErr.Message).WithCause(err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
