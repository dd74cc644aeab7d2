// Package repository defines the persistence contracts for categories, tags and questions.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a write collides with a unique key.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInUse is returned when a delete is blocked by referencing rows.
	ErrInUse = errors.New("still referenced")
)

// CategoryRepository stores categories and their maintained question counts.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Category, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, c domain.Category) error
	// Update writes name, color and icon only.
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementQuestionCount(ctx context.Context, id uuid.UUID) error
	// DecrementQuestionCount reports false when the count was already zero.
	DecrementQuestionCount(ctx context.Context, id uuid.UUID) (bool, error)
}

// TagRepository stores tags. Names are matched case-insensitively.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	FindByName(ctx context.Context, name string) (domain.Tag, error)
	Insert(ctx context.Context, t domain.Tag) error
	// InsertIfAbsent reports whether the row was created; an existing name is not an error.
	InsertIfAbsent(ctx context.Context, t domain.Tag) (bool, error)
	Update(ctx context.Context, t domain.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionRepository stores questions and their tag relations.
type QuestionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Question, error)
	// FindByIDForUpdate locks the question row until the surrounding transaction ends and
	// returns its latest committed state.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Question, error)
	List(ctx context.Context, filter domain.QuestionFilter, page domain.PageRequest) ([]domain.Question, int64, error)
	Sample(ctx context.Context, categoryID uuid.UUID, difficulty domain.Difficulty, limit int) ([]domain.Question, error)
	Count(ctx context.Context, filter domain.QuestionFilter) (int64, error)
	Insert(ctx context.Context, q domain.Question) error
	// Update overwrites the scalar fields and the category pointer.
	Update(ctx context.Context, q domain.Question) error
	// Delete removes the question and its tag relations.
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceTags(ctx context.Context, questionID uuid.UUID, tagIDs []uuid.UUID) error
}

// TxOptions configures a unit of work.
type TxOptions struct {
	ReadOnly bool
}

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Categories() CategoryRepository
	Tags() TagRepository
	Questions() QuestionRepository
	// WithTx runs fn against a transaction-bound Store. fn's error rolls everything back.
	WithTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx Store) error) error
}
