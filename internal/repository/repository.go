package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownSort = errors.New("unknown sort field")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries groups every per-entity store operation over one DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Store owns the connection pool and hands out transactional Queries.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithTx runs fn inside one transaction. Any error from fn rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("rollback failed: %v", rbErr)
		}
	}()

	if err := fn(New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// PageQuery is a resolved page request: offset/limit plus an API sort field.
type PageQuery struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

// orderClause resolves the API sort field against an allow-list and appends a
// primary key tiebreak so pages are stable.
func orderClause(columns map[string]string, q PageQuery, pk string) (string, error) {
	col, ok := columns[q.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, q.SortBy)
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s", col, dir)
	if col != pk {
		clause += fmt.Sprintf(", %s %s", pk, dir)
	}
	return clause, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
