package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound indicates that no record matched the query.
var ErrNotFound = errors.New("store: record not found")

// Store executes entity queries against the database. All SQL is composed
// with the squirrel builder and scanned through sqlx.
//
// Store is safe for concurrent use. WithTx returns a Store bound to a
// transaction; the transactional Store must not outlive the callback.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
	sb  sq.StatementBuilderType
}

// New wraps an open database handle in a Store.
func New(db *sql.DB) *Store {
	xdb := sqlx.NewDb(db, "sqlite")
	return &Store{
		db:  xdb,
		ext: xdb,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// WithTx runs fn with a Store bound to a single transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	// Already inside a transaction: reuse it.
	if _, ok := s.ext.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txStore := &Store{db: s.db, ext: tx, sb: s.sb}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// get builds the query and scans a single row into dest.
// Returns ErrNotFound when no row matches.
func (s *Store) get(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	if err := sqlx.GetContext(ctx, s.ext, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// selectAll builds the query and scans all rows into dest (a slice pointer).
func (s *Store) selectAll(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.SelectContext(ctx, s.ext, dest, query, args...)
}

// exec builds and executes an INSERT, UPDATE or DELETE statement.
func (s *Store) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	return s.ext.ExecContext(ctx, query, args...)
}

// count runs a SELECT COUNT(*) for the given table and predicate.
func (s *Store) count(ctx context.Context, table string, pred any, args ...any) (int64, error) {
	b := s.sb.Select("COUNT(*)").From(table)
	if pred != nil {
		b = b.Where(pred, args...)
	}
	var n int64
	if err := s.get(ctx, &n, b); err != nil {
		return 0, err
	}
	return n, nil
}

// exists reports whether at least one row in table matches the predicate.
func (s *Store) exists(ctx context.Context, table string, pred any, args ...any) (bool, error) {
	n, err := s.count(ctx, table, pred, args...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
