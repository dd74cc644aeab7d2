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

// Random sample bounds.
const (
	SampleDefaultLimit = 20
	SampleMaxLimit     = 100
)

// QuestionInput carries the writable fields of a question.
type QuestionInput struct {
	Question    string
	Answer      string
	CodeSnippet string
	Difficulty  domain.Difficulty
	CategoryID  uuid.UUID
	Tags        []string
}

// QuestionService provides question reads and the counter-maintaining writes.
type QuestionService struct {
	store    repository.Store
	resolver *TagResolver
	clock    Clock
	newID    func() uuid.UUID
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(store repository.Store, opts ...Option) *QuestionService {
	o := newOptions(opts)
	return &QuestionService{
		store:    store,
		resolver: NewTagResolver(opts...),
		clock:    o.clock,
		newID:    o.newID,
	}
}

var readOnly = repository.TxOptions{ReadOnly: true}

func questionError(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Question", "id", id)
	}
	return fmt.Errorf("question %s: %w", id, err)
}

// Get returns one question with its category summary and tags.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	q, err := s.store.Questions().FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, questionError(err, id)
	}
	return q, nil
}

// List returns one page of all questions.
func (s *QuestionService) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Question], error) {
	return s.ListFiltered(ctx, domain.QuestionFilter{}, page)
}

// ListFiltered returns one page of questions matching every set field of f. A referenced
// category or tag must exist.
func (s *QuestionService) ListFiltered(ctx context.Context, f domain.QuestionFilter, page domain.PageRequest) (domain.Page[domain.Question], error) {
	var out domain.Page[domain.Question]
	err := s.store.WithTx(ctx, readOnly, func(ctx context.Context, tx repository.Store) error {
		if f.CategoryID != nil {
			if _, err := tx.Categories().FindByID(ctx, *f.CategoryID); err != nil {
				return categoryError(err, *f.CategoryID)
			}
		}
		if f.TagID != nil {
			if _, err := tx.Tags().FindByID(ctx, *f.TagID); err != nil {
				return tagError(err, "id", *f.TagID)
			}
		}
		items, total, err := tx.Questions().List(ctx, f, page)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		out = domain.NewPage(items, page, total)
		return nil
	})
	return out, err
}

// ListByCategory returns one page of a category's questions.
func (s *QuestionService) ListByCategory(ctx context.Context, categoryID uuid.UUID, page domain.PageRequest) (domain.Page[domain.Question], error) {
	return s.ListFiltered(ctx, domain.QuestionFilter{CategoryID: &categoryID}, page)
}

// ListByDifficulty returns one page of questions at a difficulty.
func (s *QuestionService) ListByDifficulty(ctx context.Context, d domain.Difficulty, page domain.PageRequest) (domain.Page[domain.Question], error) {
	return s.ListFiltered(ctx, domain.QuestionFilter{Difficulty: &d}, page)
}

// ListByCategoryAndDifficulty returns one page of a category's questions at a difficulty.
func (s *QuestionService) ListByCategoryAndDifficulty(ctx context.Context, categoryID uuid.UUID, d domain.Difficulty, page domain.PageRequest) (domain.Page[domain.Question], error) {
	return s.ListFiltered(ctx, domain.QuestionFilter{CategoryID: &categoryID, Difficulty: &d}, page)
}

// ListByTag returns one page of questions carrying a tag.
func (s *QuestionService) ListByTag(ctx context.Context, tagID uuid.UUID, page domain.PageRequest) (domain.Page[domain.Question], error) {
	return s.ListFiltered(ctx, domain.QuestionFilter{TagID: &tagID}, page)
}

// SampleRandom returns up to limit questions drawn uniformly without replacement from the
// category and difficulty. Fewer matches than limit returns all of them.
func (s *QuestionService) SampleRandom(ctx context.Context, categoryID uuid.UUID, d domain.Difficulty, limit int) ([]domain.Question, error) {
	if limit < 1 || limit > SampleMaxLimit {
		return nil, apperr.Validationf("limit must be between 1 and %d", SampleMaxLimit)
	}
	var out []domain.Question
	err := s.store.WithTx(ctx, readOnly, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Categories().FindByID(ctx, categoryID); err != nil {
			return categoryError(err, categoryID)
		}
		qs, err := tx.Questions().Sample(ctx, categoryID, d, limit)
		if err != nil {
			return fmt.Errorf("sample questions: %w", err)
		}
		out = qs
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.With(ctx, map[string]any{"category_id": categoryID, "difficulty": d, "limit": limit, "count": len(out)}).Debug("questions sampled")
	return out, nil
}

// Count returns the number of questions matching f. Unknown ids simply count zero.
func (s *QuestionService) Count(ctx context.Context, f domain.QuestionFilter) (int64, error) {
	n, err := s.store.Questions().Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// CountAll returns the total number of questions.
func (s *QuestionService) CountAll(ctx context.Context) (int64, error) {
	return s.Count(ctx, domain.QuestionFilter{})
}

// CountByCategory returns the number of questions in a category.
func (s *QuestionService) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return s.Count(ctx, domain.QuestionFilter{CategoryID: &categoryID})
}

// CountByDifficulty returns the number of questions at a difficulty.
func (s *QuestionService) CountByDifficulty(ctx context.Context, d domain.Difficulty) (int64, error) {
	return s.Count(ctx, domain.QuestionFilter{Difficulty: &d})
}

// CountByCategoryAndDifficulty returns the number of a category's questions at a difficulty.
func (s *QuestionService) CountByCategoryAndDifficulty(ctx context.Context, categoryID uuid.UUID, d domain.Difficulty) (int64, error) {
	return s.Count(ctx, domain.QuestionFilter{CategoryID: &categoryID, Difficulty: &d})
}

// Create stores a question, resolving its tags and incrementing its category's count in the
// same transaction.
func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (domain.Question, error) {
	var out domain.Question
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Categories().FindByID(ctx, in.CategoryID); err != nil {
			return categoryError(err, in.CategoryID)
		}
		tags, err := s.resolver.ResolveAll(ctx, tx.Tags(), in.Tags)
		if err != nil {
			return err
		}
		q := domain.Question{
			ID:          s.newID(),
			Question:    in.Question,
			Answer:      in.Answer,
			CodeSnippet: in.CodeSnippet,
			Difficulty:  in.Difficulty,
			CategoryID:  in.CategoryID,
			Tags:        tags,
			CreatedAt:   s.clock.Now(),
		}
		if err := tx.Questions().Insert(ctx, q); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		if err := tx.Questions().ReplaceTags(ctx, q.ID, q.TagIDs()); err != nil {
			return fmt.Errorf("tag question: %w", err)
		}
		if err := IncrementQuestionCount(ctx, tx.Categories(), q.CategoryID); err != nil {
			return err
		}
		out, err = tx.Questions().FindByID(ctx, q.ID)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}
	logger.With(ctx, map[string]any{"question_id": out.ID, "category_id": out.CategoryID, "tags": len(out.Tags)}).Info("question created")
	return out, nil
}

// Update overwrites a question and replaces its tag set. Moving it to another category
// transfers one unit of count from the old category to the new one.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, in QuestionInput) (domain.Question, error) {
	var out domain.Question
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		cur, err := tx.Questions().FindByIDForUpdate(ctx, id)
		if err != nil {
			return questionError(err, id)
		}
		if in.CategoryID != cur.CategoryID {
			if _, err := tx.Categories().FindByID(ctx, in.CategoryID); err != nil {
				return categoryError(err, in.CategoryID)
			}
			if err := DecrementQuestionCount(ctx, tx.Categories(), cur.CategoryID); err != nil {
				return err
			}
			if err := IncrementQuestionCount(ctx, tx.Categories(), in.CategoryID); err != nil {
				return err
			}
		}
		tags, err := s.resolver.ResolveAll(ctx, tx.Tags(), in.Tags)
		if err != nil {
			return err
		}
		cur.Question, cur.Answer, cur.CodeSnippet = in.Question, in.Answer, in.CodeSnippet
		cur.Difficulty, cur.CategoryID, cur.Tags = in.Difficulty, in.CategoryID, tags
		if err := tx.Questions().Update(ctx, cur); err != nil {
			return questionError(err, id)
		}
		if err := tx.Questions().ReplaceTags(ctx, id, cur.TagIDs()); err != nil {
			return fmt.Errorf("tag question: %w", err)
		}
		out, err = tx.Questions().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}
	logger.WithField(ctx, "question_id", id).Info("question updated")
	return out, nil
}

// Delete removes a question and decrements its category's count. Its tags are kept.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		cur, err := tx.Questions().FindByIDForUpdate(ctx, id)
		if err != nil {
			return questionError(err, id)
		}
		if err := tx.Questions().Delete(ctx, id); err != nil {
			return questionError(err, id)
		}
		return DecrementQuestionCount(ctx, tx.Categories(), cur.CategoryID)
	})
	if err != nil {
		return err
	}
	logger.WithField(ctx, "question_id", id).Info("question deleted")
	return nil
}
