// Package postgres implements store.Store on PostgreSQL with sqlx. The schema
// lives in migrations/ and is applied with goose.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ store.Store = (*Store)(nil)

type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to databaseURL and waits for the server to accept
// connections.
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Internal("opening database", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, errors.Unavailable("database ping timeout", err)
	}
	return &Store{db: db, logger: logger.Named("postgres")}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}

// Migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations.
func (s *Store) Migrate(ctx context.Context, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{s.logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Internal("selecting goose dialect", err)
	}
	if err := goose.RunContext(ctx, command, s.db.DB, "migrations", args...); err != nil {
		return errors.Internal("migrating database", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Internal("Database error", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Internal("Database error", err)
	}
	return nil
}

// conflictMessage maps a unique constraint to a client-facing message.
func conflictMessage(constraint string) string {
	switch constraint {
	case "users_email_key":
		return "Email already exists"
	case "project_participants_project_id_user_id_key":
		return "Already requested to join this project"
	case "job_applications_job_id_user_id_key":
		return "Already applied to this job"
	case "service_requests_pending_key":
		return "You already have a pending request for this service"
	case "connections_pair_key":
		return "Connection already exists"
	}
	return "Record already exists"
}

// mapErr converts driver errors into domain errors. notFound is used for
// sql.ErrNoRows.
func mapErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(notFound, err)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Conflict(conflictMessage(pqErr.Constraint), err)
		case "23503":
			if strings.Contains(pqErr.Constraint, "receiver_id") {
				return errors.NotFound("Receiver not found", err)
			}
			return errors.NotFound("Referenced record not found", err)
		case "23514", "22P02":
			return errors.InvalidInput("Invalid value", err)
		}
	}
	return errors.Internal("Database error", err)
}

// where accumulates AND-ed conditions. A "?" in a clause is replaced by the
// next positional parameter.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// likePattern wraps q for a substring ILIKE match.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func nonNil(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Internal("Database error", err)
	}
	return n, nil
}
