// Package postgres provides a Postgres-backed implementation of the repository store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// SQLSTATE codes the store translates into repository errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// dbtx is the query surface shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on a pgx pool, or on a transaction when obtained from WithTx.
type Store struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
	db   dbtx
}

// NewStore creates a new Postgres-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// EnsureSchema creates required tables and indexes if they don't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    color VARCHAR(50) NOT NULL,
    icon VARCHAR(255) NULL,
    question_count INTEGER NOT NULL DEFAULT 0 CHECK (question_count >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS tags (
    id UUID PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
-- tag names are unique regardless of case
CREATE UNIQUE INDEX IF NOT EXISTS ux_tags_lower_name ON tags (lower(name));
CREATE TABLE IF NOT EXISTS questions (
    id UUID PRIMARY KEY,
    question VARCHAR(1000) NOT NULL,
    answer VARCHAR(5000) NOT NULL,
    code_snippet VARCHAR(10000) NULL,
    difficulty VARCHAR(20) NOT NULL CHECK (difficulty IN ('BEGINNER', 'INTERMEDIATE', 'SENIOR')),
    category_id UUID NOT NULL REFERENCES categories (id) ON DELETE RESTRICT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_questions_category_id ON questions (category_id);
CREATE INDEX IF NOT EXISTS idx_questions_difficulty ON questions (difficulty);
CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions (created_at DESC);
CREATE TABLE IF NOT EXISTS question_tags (
    question_id UUID NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
    tag_id UUID NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    PRIMARY KEY (question_id, tag_id)
);
CREATE INDEX IF NOT EXISTS idx_question_tags_tag_id ON question_tags (tag_id);
`
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info(ctx, "postgres schema ensured")
	return nil
}

// Categories implements repository.Store.
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepository{db: s.db} }

// Tags implements repository.Store.
func (s *Store) Tags() repository.TagRepository { return &TagRepository{db: s.db} }

// Questions implements repository.Store.
func (s *Store) Questions() repository.QuestionRepository { return &QuestionRepository{db: s.db} }

// WithTx runs fn in a transaction. Called on a transaction-bound store it opens a savepoint.
// The transaction is rolled back when fn returns an error or panics.
func (s *Store) WithTx(ctx context.Context, opts repository.TxOptions, fn func(ctx context.Context, tx repository.Store) error) error {
	run := func(tx pgx.Tx) error {
		return fn(ctx, &Store{tx: tx, db: tx})
	}
	if s.tx != nil {
		return pgx.BeginFunc(ctx, s.tx, run)
	}
	txOpts := pgx.TxOptions{}
	if opts.ReadOnly {
		txOpts.AccessMode = pgx.ReadOnly
	}
	return pgx.BeginTxFunc(ctx, s.pool, txOpts, run)
}

// translate maps driver errors onto repository errors, wrapping anything else with op.
// A foreign key violation means a referenced row is missing.
func translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, repository.ErrAlreadyExists)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// nullable returns nil for the empty string so optional text columns store NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.Store = (*Store)(nil)
