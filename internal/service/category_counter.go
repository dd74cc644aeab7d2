package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// The counter helpers run inside the caller's transaction so the stored question_count moves
// together with the question rows.

// IncrementQuestionCount adds one question to the category's count.
func IncrementQuestionCount(ctx context.Context, cats repository.CategoryRepository, id uuid.UUID) error {
	if err := cats.IncrementQuestionCount(ctx, id); err != nil {
		return categoryError(err, id)
	}
	return nil
}

// DecrementQuestionCount removes one question from the category's count. A count that is
// already zero stays at zero; that only happens after drift, so it is logged.
func DecrementQuestionCount(ctx context.Context, cats repository.CategoryRepository, id uuid.UUID) error {
	ok, err := cats.DecrementQuestionCount(ctx, id)
	if err != nil {
		return categoryError(err, id)
	}
	if !ok {
		logger.WithField(ctx, "category_id", id).Warn("question count already zero, decrement skipped")
	}
	return nil
}

// GuardDeletable locks the category row and fails with a conflict while it still has questions.
func GuardDeletable(ctx context.Context, cats repository.CategoryRepository, id uuid.UUID) (domain.Category, error) {
	c, err := cats.FindByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Category{}, categoryError(err, id)
	}
	if c.QuestionCount > 0 {
		return domain.Category{}, deleteConflict(c.Name, c.QuestionCount)
	}
	return c, nil
}

func deleteConflict(name string, n int) error {
	return apperr.Conflict(fmt.Sprintf("Cannot delete category '%s' because it contains %d question(s)", name, n))
}

func categoryError(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Category", "id", id)
	}
	return fmt.Errorf("category %s: %w", id, err)
}
